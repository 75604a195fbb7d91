// Package schedule owns the sparse booking grid, the booking constraint
// checks, and the recurring booking planner. The grid is a denormalized
// index over the session list: it can always be rebuilt from the sessions
// and is never the source of truth.
package schedule

import (
	"fmt"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
)

// Grid maps day -> hour -> therapistID -> sessionID. A (day, hour,
// therapist) triple holds at most one session; multi-hour sessions occupy
// one entry per spanned hour.
type Grid map[int]map[int]map[string]string

// SessionAt returns the session occupying a slot, if any.
func (g Grid) SessionAt(day, hour int, therapistID string) (string, bool) {
	hours, ok := g[day]
	if !ok {
		return "", false
	}
	slots, ok := hours[hour]
	if !ok {
		return "", false
	}
	id, ok := slots[therapistID]
	return id, ok
}

// SessionCountOn counts the distinct sessions a therapist holds on a day.
// Multi-hour sessions count once.
func (g Grid) SessionCountOn(day int, therapistID string) int {
	hours, ok := g[day]
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, slots := range hours {
		if id, ok := slots[therapistID]; ok {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Add returns a new grid with the session's span recorded. Only the
// touched day and hour branches are copied; untouched branches are shared
// with the original, so the original grid is never mutated.
func Add(g Grid, s *session.Session) Grid {
	next := make(Grid, len(g)+1)
	for day, hours := range g {
		next[day] = hours
	}

	day := copyDay(next[s.ScheduledDay])
	for _, h := range s.SpanHours() {
		slots := copyHour(day[h])
		slots[s.TherapistID] = s.ID
		day[h] = slots
	}
	next[s.ScheduledDay] = day
	return next
}

// Remove returns a new grid with the session's span cleared. Emptied hour
// and day branches are pruned so the grid stays sparse.
func Remove(g Grid, s *session.Session) Grid {
	hours, ok := g[s.ScheduledDay]
	if !ok {
		return g
	}

	next := make(Grid, len(g))
	for day, h := range g {
		next[day] = h
	}

	day := copyDay(hours)
	for _, h := range s.SpanHours() {
		slots, ok := day[h]
		if !ok {
			continue
		}
		if slots[s.TherapistID] != s.ID {
			continue
		}
		cleared := copyHour(slots)
		delete(cleared, s.TherapistID)
		if len(cleared) == 0 {
			delete(day, h)
		} else {
			day[h] = cleared
		}
	}
	if len(day) == 0 {
		delete(next, s.ScheduledDay)
	} else {
		next[s.ScheduledDay] = day
	}
	return next
}

// BuildFromSessions derives the grid from a session list. Only sessions
// that occupy slots (everything but cancelled) are indexed.
func BuildFromSessions(sessions []*session.Session) Grid {
	g := make(Grid)
	for _, s := range sessions {
		if !s.OccupiesGrid() {
			continue
		}
		g = Add(g, s)
	}
	return g
}

// IsSlotAvailable reports whether a therapist can take a session at the
// given slot: every hour the session would span must lie inside the work
// window (including the lunch-break exclusion) and be unoccupied. A span
// extending past the window is unavailable.
func IsSlotAvailable(g Grid, therapistID string, day, hour, durationMinutes int, hours gametime.WorkHours) bool {
	if !hours.CoversSpan(hour, durationMinutes) {
		return false
	}
	for _, h := range gametime.SpanHours(hour, durationMinutes) {
		if _, taken := g.SessionAt(day, h, therapistID); taken {
			return false
		}
	}
	return true
}

// Conflict describes one occupied hour-slot inside a proposed span.
type Conflict struct {
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// Conflicts enumerates the occupied hour-slots a proposed booking would
// collide with, each tagged with the blocking session.
func Conflicts(g Grid, therapistID string, day, hour, durationMinutes int) []Conflict {
	var out []Conflict
	for _, h := range gametime.SpanHours(hour, durationMinutes) {
		if id, taken := g.SessionAt(day, h, therapistID); taken {
			out = append(out, Conflict{
				Day:       day,
				Hour:      h,
				SessionID: id,
				Reason:    fmt.Sprintf("therapist already has session %s at %d:00 on day %d", id, h, day),
			})
		}
	}
	return out
}

// ClientHasConflictingSession reports whether a proposed slot overlaps any
// of the client's scheduled or in-progress sessions on the same day. The
// check is half-open interval overlap, not start-hour equality, because
// sessions span multiple hour-slots.
func ClientHasConflictingSession(sessions []*session.Session, clientID string, day, hour, durationMinutes int) bool {
	for _, s := range sessions {
		if s.ClientID != clientID || !s.Active() {
			continue
		}
		if s.Overlaps(day, hour, durationMinutes) {
			return true
		}
	}
	return false
}

func copyDay(hours map[int]map[string]string) map[int]map[string]string {
	out := make(map[int]map[string]string, len(hours)+1)
	for h, slots := range hours {
		out[h] = slots
	}
	return out
}

func copyHour(slots map[string]string) map[string]string {
	out := make(map[string]string, len(slots)+1)
	for id, sid := range slots {
		out[id] = sid
	}
	return out
}
