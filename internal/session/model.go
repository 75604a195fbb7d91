// Package session implements the session lifecycle: scheduling metadata,
// the in-progress state machine, decision events, and the treatment
// progress resolution applied at completion.
package session

import (
	"strings"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
)

// Status is a session's lifecycle state.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// QualityModifier is a named, signed contribution to a session's quality,
// retained so the final score can be explained.
type QualityModifier struct {
	Source      string  `json:"source"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// DecisionRecord captures a choice made during a session.
type DecisionRecord struct {
	EventID      string  `json:"eventId"`
	ChoiceIndex  int     `json:"choiceIndex"`
	QualityDelta float64 `json:"qualityDelta"`
	EnergyDelta  float64 `json:"energyDelta"`
}

// Session is a single therapy appointment. It is owned by the engine until
// completion, after which it is an immutable historical record.
type Session struct {
	ID          string `json:"id"`
	TherapistID string `json:"therapistId"`
	ClientID    string `json:"clientId"`

	IsVirtual   bool `json:"isVirtual"`
	IsInsurance bool `json:"isInsurance"`

	ScheduledDay    int `json:"scheduledDay"`
	ScheduledHour   int `json:"scheduledHour"`
	DurationMinutes int `json:"durationMinutes"`

	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
	Quality  float64 `json:"quality"`

	QualityModifiers []QualityModifier `json:"qualityModifiers"`
	DecisionsMade    []DecisionRecord  `json:"decisionsMade"`

	// DecisionTriggered latches once a decision event has fired for this
	// session; at most one event fires per session.
	DecisionTriggered bool   `json:"decisionTriggered"`
	PendingDecisionID string `json:"pendingDecisionId,omitempty"`

	Payment    int `json:"payment"`
	EnergyCost int `json:"energyCost"`
}

// Active reports whether the session still holds its time slot for
// double-booking purposes.
func (s *Session) Active() bool {
	return s.Status == StatusScheduled || s.Status == StatusInProgress
}

// OccupiesGrid reports whether the session should appear in the schedule
// grid. Cancelled sessions never occupy slots.
func (s *Session) OccupiesGrid() bool {
	return s.Status != StatusCancelled
}

// SpanHours returns the hour-slots the session occupies.
func (s *Session) SpanHours() []int {
	return gametime.SpanHours(s.ScheduledHour, s.DurationMinutes)
}

// Overlaps reports whether the session's time interval intersects a
// proposed slot on the same day. Both intervals are half-open in minutes,
// so multi-hour sessions conflict across their whole span, not just at
// their start hour.
func (s *Session) Overlaps(day, hour, durationMinutes int) bool {
	if s.ScheduledDay != day {
		return false
	}
	start := s.ScheduledHour * 60
	end := start + s.DurationMinutes
	pStart := hour * 60
	pEnd := pStart + durationMinutes
	return pStart < end && start < pEnd
}

// AddQualityModifier appends a modifier and folds it into the cumulative
// quality score, clamped to [0, 1].
func (s *Session) AddQualityModifier(source string, value float64, description string) {
	s.QualityModifiers = append(s.QualityModifiers, QualityModifier{
		Source:      source,
		Value:       value,
		Description: description,
	})
	s.Quality = clamp01(s.Quality + value)
}

// HadCrisisDecision reports whether any decision made during the session
// came from a crisis or trauma event, which exposes the client to
// regression risk at completion.
func (s *Session) HadCrisisDecision() bool {
	for _, d := range s.DecisionsMade {
		if strings.Contains(d.EventID, "crisis") || strings.Contains(d.EventID, "trauma") {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
