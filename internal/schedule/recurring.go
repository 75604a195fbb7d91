package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// RecurringRequest asks for a series of sessions at a fixed cadence.
type RecurringRequest struct {
	StartDay        int  `json:"startDay"`
	StartHour       int  `json:"startHour"`
	IntervalDays    int  `json:"intervalDays"`
	Count           int  `json:"count"`
	DurationMinutes int  `json:"durationMinutes"`
	IsVirtual       bool `json:"isVirtual"`
}

// PlannedSlot is one successfully reserved occurrence.
type PlannedSlot struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// OccurrenceFailure records one occurrence that could not be placed.
// Failures are independent: later occurrences are still attempted.
type OccurrenceFailure struct {
	Index         int    `json:"index"`
	TargetDay     int    `json:"targetDay"`
	PreferredHour int    `json:"preferredHour"`
	Reason        string `json:"reason"`
}

// Plan is the outcome of a recurring booking request.
type Plan struct {
	Planned  []PlannedSlot       `json:"planned"`
	Failures []OccurrenceFailure `json:"failures"`
}

// Planner finds and reserves recurring session series against a working
// copy of the schedule, so each occurrence sees the ones planned before it.
type Planner struct {
	Rules              rules.Rules
	Building           Building
	TelehealthUnlocked bool
}

// PlanRecurring places up to req.Count occurrences starting at
// (StartDay, StartHour), IntervalDays apart. The anchor occurrence must
// land exactly on the requested slot; it fails outright if that slot is
// unusable. Later occurrences may substitute the closest available hour on
// their target day, ties broken toward the earlier hour. Single-occurrence
// failures do not abort the series.
func (p Planner) PlanRecurring(g Grid, sessions []*session.Session, th *therapist.Therapist, cl *clients.Client, req RecurringRequest, now gametime.Time) Plan {
	var plan Plan

	if req.Count <= 0 || req.IntervalDays <= 0 {
		plan.Failures = append(plan.Failures, OccurrenceFailure{
			Index:         0,
			TargetDay:     req.StartDay,
			PreferredHour: req.StartHour,
			Reason:        "count and interval must be positive",
		})
		return plan
	}

	workGrid := g
	workSessions := make([]*session.Session, len(sessions), len(sessions)+req.Count)
	copy(workSessions, sessions)
	window := th.WorkWindow(p.Rules.BusinessHours)

	for i := 0; i < req.Count; i++ {
		targetDay := req.StartDay + i*req.IntervalDays

		hour, reason := p.placeOccurrence(workGrid, workSessions, th, cl, req, now, window, targetDay, i == 0)
		if reason != "" {
			plan.Failures = append(plan.Failures, OccurrenceFailure{
				Index:         i,
				TargetDay:     targetDay,
				PreferredHour: req.StartHour,
				Reason:        reason,
			})
			continue
		}

		// Reserve provisionally so later occurrences see this slot taken.
		reserved := &session.Session{
			ID:              uuid.New().String(),
			TherapistID:     th.ID,
			ClientID:        cl.ID,
			IsVirtual:       req.IsVirtual,
			ScheduledDay:    targetDay,
			ScheduledHour:   hour,
			DurationMinutes: req.DurationMinutes,
			Status:          session.StatusScheduled,
		}
		workSessions = append(workSessions, reserved)
		workGrid = Add(workGrid, reserved)
		plan.Planned = append(plan.Planned, PlannedSlot{Day: targetDay, Hour: hour})
	}
	return plan
}

// placeOccurrence picks the hour for one occurrence, or a rejection reason.
func (p Planner) placeOccurrence(g Grid, sessions []*session.Session, th *therapist.Therapist, cl *clients.Client, req RecurringRequest, now gametime.Time, window gametime.WorkHours, targetDay int, anchor bool) (int, string) {
	preferredReason := p.validateSlot(g, sessions, th, cl, req, now, window, targetDay, req.StartHour)
	if anchor {
		// The anchor must land exactly where asked; no substitution.
		if preferredReason != "" {
			return 0, preferredReason
		}
		return req.StartHour, ""
	}
	if preferredReason == "" {
		return req.StartHour, ""
	}

	best := -1
	bestDist := 0
	for h := window.Start; h < window.End; h++ {
		if h == req.StartHour {
			continue
		}
		if p.validateSlot(g, sessions, th, cl, req, now, window, targetDay, h) != "" {
			continue
		}
		dist := h - req.StartHour
		if dist < 0 {
			dist = -dist
		}
		// Ties break toward the smaller hour; scanning ascending makes
		// a strict improvement check sufficient.
		if best == -1 || dist < bestDist {
			best = h
			bestDist = dist
		}
	}
	if best == -1 {
		return 0, preferredReason
	}
	return best, ""
}

// validateSlot runs the per-candidate checks in their fixed order:
// not-in-past, slot availability, client conflict, daily cap, then
// session-type legality. The first failure is the reported reason.
func (p Planner) validateSlot(g Grid, sessions []*session.Session, th *therapist.Therapist, cl *clients.Client, req RecurringRequest, now gametime.Time, window gametime.WorkHours, day, hour int) string {
	if now.SlotInPast(day, hour) {
		return "slot is in the past"
	}
	if !IsSlotAvailable(g, th.ID, day, hour, req.DurationMinutes, window) {
		return "time slot is not available"
	}
	if ClientHasConflictingSession(sessions, cl.ID, day, hour, req.DurationMinutes) {
		return "client already has a session at this time"
	}
	if g.SessionCountOn(day, th.ID) >= p.Rules.MaxSessionsPerTherapistPerDay {
		return fmt.Sprintf("therapist is at the daily limit of %d sessions", p.Rules.MaxSessionsPerTherapistPerDay)
	}
	if d := CanBookSessionType(BookingCheck{
		Building:           p.Building,
		Sessions:           sessions,
		TelehealthUnlocked: p.TelehealthUnlocked,
		IsVirtual:          req.IsVirtual,
		Day:                day,
		Hour:               hour,
		DurationMinutes:    req.DurationMinutes,
	}); !d.CanBook {
		return d.Reason
	}
	return ""
}
