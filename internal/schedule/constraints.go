package schedule

import (
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
)

// Building describes the office's physical capacity.
type Building struct {
	Rooms int `json:"rooms"`
}

// Decision is the discriminated result of a booking constraint check.
// Reason is set only when the booking is rejected and is meant to be
// shown to the player as-is.
type Decision struct {
	CanBook bool   `json:"canBook"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{CanBook: true}
}

func deny(reason string) Decision {
	return Decision{CanBook: false, Reason: reason}
}

// BookingCheck is the input to CanBookSessionType.
type BookingCheck struct {
	Building           Building
	Sessions           []*session.Session
	TelehealthUnlocked bool

	IsVirtual       bool
	Day             int
	Hour            int
	DurationMinutes int
}

// CanBookSessionType is the single gate for session-type legality, used by
// both direct booking and the recurring planner. Virtual sessions require
// the telehealth upgrade; in-person sessions need a free room at every
// hour the candidate would span.
func CanBookSessionType(in BookingCheck) Decision {
	if in.IsVirtual {
		if !in.TelehealthUnlocked {
			return deny("telehealth is not unlocked")
		}
		return allow()
	}

	for _, h := range gametime.SpanHours(in.Hour, in.DurationMinutes) {
		inUse := 0
		for _, s := range in.Sessions {
			if s.IsVirtual || !s.Active() {
				continue
			}
			if s.Overlaps(in.Day, h, 60) {
				inUse++
			}
		}
		if inUse >= in.Building.Rooms {
			return deny("no rooms available at this time")
		}
	}
	return allow()
}
