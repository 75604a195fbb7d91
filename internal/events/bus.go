package events

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var errNilEvent = errors.New("events: event required")

// Envelope wraps a payload with identity and simulation-time metadata.
type Envelope struct {
	EventID   uuid.UUID       `json:"event_id"`
	EventType string          `json:"event_type"`
	Day       int             `json:"day"`
	Hour      int             `json:"hour"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope seals an event payload for delivery. Day and hour are the
// simulation clock at emission time.
func NewEnvelope(day, hour int, evt Event) (Envelope, error) {
	if evt == nil {
		return Envelope{}, errNilEvent
	}
	eventType := strings.TrimSpace(evt.EventType())
	if eventType == "" {
		return Envelope{}, errors.New("events: event type missing")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:   uuid.New(),
		EventType: eventType,
		Day:       day,
		Hour:      hour,
		Payload:   payload,
	}, nil
}

// Handler consumes sealed envelopes. Handlers must not block: the engine
// emits synchronously inside its tick loop.
type Handler interface {
	Handle(env Envelope)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(env Envelope)

func (f HandlerFunc) Handle(env Envelope) { f(env) }

// Bus fans envelopes out to its handlers in registration order. A nil
// *Bus is a valid no-op emitter so callers never need nil checks.
type Bus struct {
	handlers []Handler
}

// NewBus builds a bus with the given handlers.
func NewBus(handlers ...Handler) *Bus {
	return &Bus{handlers: handlers}
}

// Subscribe appends a handler.
func (b *Bus) Subscribe(h Handler) {
	if b == nil || h == nil {
		return
	}
	b.handlers = append(b.handlers, h)
}

// Emit seals the event and delivers it to every handler. Invalid events
// are dropped; emission never interrupts the simulation.
func (b *Bus) Emit(day, hour int, evt Event) {
	if b == nil {
		return
	}
	env, err := NewEnvelope(day, hour, evt)
	if err != nil {
		return
	}
	for _, h := range b.handlers {
		h.Handle(env)
	}
}
