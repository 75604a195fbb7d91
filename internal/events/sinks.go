package events

import (
	"sync"

	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

// LogSink writes every envelope to the structured log.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink builds a sink over the given logger. A nil logger uses the
// default one.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger.WithComponent("events")}
}

func (s *LogSink) Handle(env Envelope) {
	s.logger.Info("domain event",
		"event_id", env.EventID.String(),
		"event_type", env.EventType,
		"day", env.Day,
		"hour", env.Hour,
	)
}

// Recorder captures envelopes for inspection in tests.
type Recorder struct {
	mu       sync.Mutex
	received []Envelope
}

func (r *Recorder) Handle(env Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, env)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.received))
	copy(out, r.received)
	return out
}

// OfType filters recorded envelopes by event type.
func (r *Recorder) OfType(eventType string) []Envelope {
	var out []Envelope
	for _, env := range r.Events() {
		if env.EventType == eventType {
			out = append(out, env)
		}
	}
	return out
}
