package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/events"
	"github.com/tycoonlabs/therapy-tycoon/internal/schedule"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/suggest"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// BookingRequest asks for a single session.
type BookingRequest struct {
	ClientID        string `json:"clientId"`
	TherapistID     string `json:"therapistId"`
	Day             int    `json:"day"`
	Hour            int    `json:"hour"`
	DurationMinutes int    `json:"durationMinutes"`
	IsVirtual       bool   `json:"isVirtual"`
}

// BookSession validates a single booking and commits it atomically. The
// session's payment is fixed at booking time from the client's rate and
// the duration multiplier; later rate changes never reprice it.
func (e *Engine) BookSession(req BookingRequest) (*session.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl, th, err := e.lookupParties(req.ClientID, req.TherapistID)
	if err != nil {
		return nil, err
	}
	if !e.rules.ValidDuration(req.DurationMinutes) {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, req.DurationMinutes)
	}

	// A single booking is a one-occurrence series: the anchor rule gives
	// exact-slot semantics with no substitution.
	plan := e.planner().PlanRecurring(e.state.Grid, e.state.sessionsSorted(), th, cl, schedule.RecurringRequest{
		StartDay:        req.Day,
		StartHour:       req.Hour,
		IntervalDays:    1,
		Count:           1,
		DurationMinutes: req.DurationMinutes,
		IsVirtual:       req.IsVirtual,
	}, e.state.Clock)
	if len(plan.Failures) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBookingRejected, plan.Failures[0].Reason)
	}

	s := e.commitSession(cl, th, req.Day, req.Hour, req.DurationMinutes, req.IsVirtual, false)
	return s, nil
}

// RecurringResult pairs the committed sessions with the occurrences that
// could not be placed.
type RecurringResult struct {
	Sessions []*session.Session           `json:"sessions"`
	Failures []schedule.OccurrenceFailure `json:"failures"`
}

// BookRecurring books a session series. Occurrences that cannot be placed
// are reported but do not block the rest of the series; the anchor
// occurrence is strict.
func (e *Engine) BookRecurring(clientID, therapistID string, req schedule.RecurringRequest) (RecurringResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl, th, err := e.lookupParties(clientID, therapistID)
	if err != nil {
		return RecurringResult{}, err
	}
	if !e.rules.ValidDuration(req.DurationMinutes) {
		return RecurringResult{}, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, req.DurationMinutes)
	}

	plan := e.planner().PlanRecurring(e.state.Grid, e.state.sessionsSorted(), th, cl, req, e.state.Clock)

	result := RecurringResult{Failures: plan.Failures}
	for _, slot := range plan.Planned {
		s := e.commitSession(cl, th, slot.Day, slot.Hour, req.DurationMinutes, req.IsVirtual, true)
		result.Sessions = append(result.Sessions, s)
	}
	return result, nil
}

// CancelSession aborts a scheduled or in-progress session.
func (e *Engine) CancelSession(sessionID, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.state.Sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	wasStarted := s.Status == session.StatusInProgress

	th := e.state.Therapists[s.TherapistID]
	cl := e.state.Clients[s.ClientID]
	if !session.Cancel(s, th, cl, reason, e.rules) {
		return fmt.Errorf("%w: %s", ErrSessionNotCancellable, sessionID)
	}

	e.state.Grid = schedule.Remove(e.state.Grid, s)
	e.metrics.ObserveCancellation(reason)
	e.emit(events.SessionCancelledV1{
		SessionID:   s.ID,
		ClientID:    s.ClientID,
		TherapistID: s.TherapistID,
		Day:         e.state.Clock.Day,
		Reason:      reason,
		WasStarted:  wasStarted,
	})
	e.logger.Info("session cancelled", "session_id", s.ID, "reason", reason)
	return nil
}

// Suggestions returns up to max ranked booking recommendations.
func (e *Engine) Suggestions(max int) []suggest.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	eng := suggest.Engine{
		Rules:              e.rules,
		Building:           schedule.Building{Rooms: e.state.Rooms},
		TelehealthUnlocked: e.state.TelehealthUnlocked,
	}
	return eng.Suggest(suggest.Input{
		Grid:           e.state.Grid,
		Sessions:       e.state.sessionsSorted(),
		Clients:        e.state.clientsSorted(),
		Therapists:     e.state.therapistsSorted(),
		Now:            e.state.Clock,
		MaxSuggestions: max,
	})
}

func (e *Engine) planner() schedule.Planner {
	return schedule.Planner{
		Rules:              e.rules,
		Building:           schedule.Building{Rooms: e.state.Rooms},
		TelehealthUnlocked: e.state.TelehealthUnlocked,
	}
}

func (e *Engine) lookupParties(clientID, therapistID string) (*clients.Client, *therapist.Therapist, error) {
	cl, ok := e.state.Clients[clientID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownClient, clientID)
	}
	th, ok := e.state.Therapists[therapistID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTherapist, therapistID)
	}
	return cl, th, nil
}

// commitSession creates and indexes a validated session. Callers hold the
// lock and have already run the booking constraints.
func (e *Engine) commitSession(cl *clients.Client, th *therapist.Therapist, day, hour, duration int, isVirtual, recurring bool) *session.Session {
	payment := int(math.Round(float64(cl.SessionRate) * e.rules.PaymentMultiplierFor(duration)))
	s := &session.Session{
		ID:              uuid.New().String(),
		TherapistID:     th.ID,
		ClientID:        cl.ID,
		IsVirtual:       isVirtual,
		IsInsurance:     !cl.IsPrivatePay,
		ScheduledDay:    day,
		ScheduledHour:   hour,
		DurationMinutes: duration,
		Status:          session.StatusScheduled,
		Payment:         payment,
		EnergyCost:      e.rules.EnergyCostFor(duration),
	}

	e.state.Sessions[s.ID] = s
	e.state.Grid = schedule.Add(e.state.Grid, s)
	if cl.AssignedTherapistID == "" {
		cl.AssignedTherapistID = th.ID
	}

	e.metrics.ObserveBooking(isVirtual, recurring)
	e.emit(events.SessionScheduledV1{
		SessionID:       s.ID,
		ClientID:        cl.ID,
		TherapistID:     th.ID,
		Day:             day,
		Hour:            hour,
		DurationMinutes: duration,
		IsVirtual:       isVirtual,
		Recurring:       recurring,
		Payment:         payment,
	})
	e.logger.Info("session booked",
		"session_id", s.ID,
		"client_id", cl.ID,
		"therapist_id", th.ID,
		"day", day,
		"hour", hour,
	)
	return s
}
