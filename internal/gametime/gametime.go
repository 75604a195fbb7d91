// Package gametime models the discrete simulation clock. A Time is a
// (day, hour, minute) triple; days start at 1 and advance strictly forward.
package gametime

// Time is a point on the simulation clock.
type Time struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Start returns the clock position at the beginning of day 1.
func Start() Time {
	return Time{Day: 1, Hour: 0, Minute: 0}
}

// Advance returns the time moved forward by the given number of minutes.
// Hour and day rollover are applied; negative deltas are ignored.
func (t Time) Advance(minutes int) Time {
	if minutes <= 0 {
		return t
	}
	total := t.Minute + minutes
	t.Minute = total % 60
	carryHours := total / 60
	hours := t.Hour + carryHours
	t.Hour = hours % 24
	t.Day += hours / 24
	return t
}

// TotalMinutes converts the time into absolute minutes since day 1, 00:00.
func (t Time) TotalMinutes() int {
	return (t.Day-1)*24*60 + t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier than other.
func (t Time) Before(other Time) bool {
	return t.TotalMinutes() < other.TotalMinutes()
}

// SlotInPast reports whether a (day, hour) slot has already begun relative
// to t. A slot at the current hour counts as past once the hour has started.
func (t Time) SlotInPast(day, hour int) bool {
	if day != t.Day {
		return day < t.Day
	}
	if hour != t.Hour {
		return hour < t.Hour
	}
	return t.Minute > 0
}

// WorkHours is a therapist's bookable window within a day. End is exclusive:
// the last session must finish by End. LunchHour is excluded from booking;
// set it to NoLunch to disable the break.
type WorkHours struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	LunchHour int `json:"lunchHour"`
}

// NoLunch disables the lunch-break exclusion in a WorkHours window.
const NoLunch = -1

// Covers reports whether a single hour-slot lies inside the window and is
// not the lunch break.
func (w WorkHours) Covers(hour int) bool {
	if hour < w.Start || hour >= w.End {
		return false
	}
	return w.LunchHour == NoLunch || hour != w.LunchHour
}

// CoversSpan reports whether every hour-slot of a session starting at hour
// with the given duration lies inside the window. A span that extends past
// End is not covered.
func (w WorkHours) CoversSpan(hour, durationMinutes int) bool {
	for _, h := range SpanHours(hour, durationMinutes) {
		if !w.Covers(h) {
			return false
		}
	}
	return true
}

// SpanHours returns the consecutive hour-slots a session occupies. Sessions
// are billed in hour blocks, so a 50-minute session takes one slot and an
// 80-minute session takes two.
func SpanHours(startHour, durationMinutes int) []int {
	n := (durationMinutes + 59) / 60
	if n < 1 {
		n = 1
	}
	hours := make([]int, 0, n)
	for i := 0; i < n; i++ {
		hours = append(hours, startHour+i)
	}
	return hours
}
