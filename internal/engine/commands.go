package engine

import (
	"fmt"

	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
)

// ApplyDecision resolves a session's pending decision event with the
// player's choice. If the session had already run its full duration while
// waiting, it completes immediately afterward.
func (e *Engine) ApplyDecision(sessionID string, choiceIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.state.Sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if s.PendingDecisionID == "" {
		return session.ErrNoPendingDecision
	}

	var event *session.DecisionEvent
	for i := range e.deck {
		if e.deck[i].ID == s.PendingDecisionID {
			event = &e.deck[i]
			break
		}
	}
	if event == nil {
		return session.ErrNoPendingDecision
	}

	th := e.state.Therapists[s.TherapistID]
	if err := session.ApplyDecision(s, th, *event, choiceIndex); err != nil {
		return err
	}
	e.logger.Info("decision applied",
		"session_id", s.ID,
		"event_id", event.ID,
		"choice", choiceIndex,
	)

	if session.IsSessionComplete(s) {
		e.completeSession(s)
	}
	return nil
}

// PendingDecision returns the decision event a session is waiting on, or
// nil when there is none.
func (e *Engine) PendingDecision(sessionID string) (*session.DecisionEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.state.Sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if s.PendingDecisionID == "" {
		return nil, nil
	}
	for i := range e.deck {
		if e.deck[i].ID == s.PendingDecisionID {
			event := e.deck[i]
			return &event, nil
		}
	}
	return nil, nil
}

// SubmitAppeal files an appeal on a denied claim.
func (e *Engine) SubmitAppeal(claimID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.state.Claims[claimID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClaim, claimID)
	}
	return e.pipeline.SubmitAppeal(c, e.state.Clock.Day)
}

// Claims lists every claim, sorted by ID.
func (e *Engine) Claims() []*insurance.PendingClaim {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.claimsSorted()
}

// Session looks up one session.
func (e *Engine) Session(id string) (*session.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.state.Sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}
