package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoSave is returned when a load finds no stored snapshot.
var ErrNoSave = errors.New("save: no snapshot stored")

// ErrVersionMismatch is returned when a stored snapshot uses a schema this
// build cannot read.
var ErrVersionMismatch = errors.New("save: snapshot version not supported")

// Store persists snapshots.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// InMemoryStore keeps the snapshot in process memory. Used in tests and as
// the fallback when no Redis address is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	snap  Snapshot
	saved bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.saved = true
	return nil
}

func (s *InMemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return Snapshot{}, ErrNoSave
	}
	return s.snap, nil
}

// RedisStore persists the snapshot as a JSON blob under a single key.
type RedisStore struct {
	redis  *redis.Client
	key    string
	tracer trace.Tracer
}

// NewRedisStore builds a store over an existing client. The key identifies
// the save slot.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if client == nil {
		panic("save: redis client cannot be nil")
	}
	if key == "" {
		key = "therapy-tycoon:save"
	}
	return &RedisStore{
		redis:  client,
		key:    key,
		tracer: otel.Tracer("tycoon.internal.save"),
	}
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "save.store_snapshot")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("save: failed to marshal snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save: failed to persist snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "save.load_snapshot")
	defer span.End()

	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNoSave
		}
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("save: failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("save: failed to decode snapshot: %w", err)
	}
	if snap.Version != CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, snap.Version, CurrentVersion)
	}
	return snap, nil
}
