// Package engine coordinates the whole simulation: the clock, booking
// commands, the session state machine, client lifecycle, and the insurance
// pipeline. All mutation goes through the engine under one lock; every
// command validates against current state before committing, so a rejected
// command leaves the world untouched.
package engine

import (
	"errors"
	"math/rand"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tycoonlabs/therapy-tycoon/internal/events"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/observability/metrics"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/save"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

var (
	ErrUnknownClient    = errors.New("engine: unknown client")
	ErrUnknownTherapist = errors.New("engine: unknown therapist")
	ErrUnknownSession   = errors.New("engine: unknown session")
	ErrUnknownClaim     = errors.New("engine: unknown claim")
	ErrInvalidDuration  = errors.New("engine: invalid session duration")

	// ErrBookingRejected wraps the constraint that blocked a booking.
	ErrBookingRejected = errors.New("engine: booking rejected")

	// ErrSessionNotCancellable is returned for sessions already in a
	// terminal state.
	ErrSessionNotCancellable = errors.New("engine: session already finished")
)

// Options configures a new engine. Zero values get sensible defaults.
type Options struct {
	Rules   rules.Rules
	Seed    int64
	Rooms   int
	Balance int

	TelehealthUnlocked bool

	Logger  *logging.Logger
	Bus     *events.Bus
	Metrics *metrics.EngineMetrics
	Store   save.Store

	// DecisionDeck overrides the default mid-session decision events.
	DecisionDeck []session.DecisionEvent
}

// Engine drives the simulation. Safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	rules rules.Rules
	state *State
	rng   *rand.Rand

	pipeline *insurance.Pipeline
	deck     []session.DecisionEvent

	bus     *events.Bus
	metrics *metrics.EngineMetrics
	logger  *logging.Logger
	store   save.Store
	tracer  trace.Tracer
}

// New builds an engine over a fresh world.
func New(opts Options) *Engine {
	r := opts.Rules
	if r.MaxSessionsPerTherapistPerDay == 0 {
		r = rules.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	deck := opts.DecisionDeck
	if deck == nil {
		deck = session.DefaultDecisionEvents()
	}
	store := opts.Store
	if store == nil {
		store = save.NewInMemoryStore()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	st := newState()
	st.Balance = opts.Balance
	st.TelehealthUnlocked = opts.TelehealthUnlocked
	if opts.Rooms > 0 {
		st.Rooms = opts.Rooms
	}

	return &Engine{
		rules:    r,
		state:    st,
		rng:      rng,
		pipeline: insurance.NewPipeline(r.Claims, nil, rng, logger.WithComponent("insurance")),
		deck:     deck,
		bus:      opts.Bus,
		metrics:  opts.Metrics,
		logger:   logger.WithComponent("engine"),
		store:    store,
		tracer:   otel.Tracer("tycoon.internal.engine"),
	}
}

// Clock returns the current simulation time.
func (e *Engine) Clock() (day, hour, minute int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clock.Day, e.state.Clock.Hour, e.state.Clock.Minute
}

// Balance returns the practice's current funds.
func (e *Engine) Balance() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Balance
}

func (e *Engine) emit(evt events.Event) {
	e.bus.Emit(e.state.Clock.Day, e.state.Clock.Hour, evt)
}
