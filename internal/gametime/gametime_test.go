package gametime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceRollover(t *testing.T) {
	tests := []struct {
		name    string
		from    Time
		minutes int
		want    Time
	}{
		{"one minute", Time{Day: 1, Hour: 8, Minute: 0}, 1, Time{Day: 1, Hour: 8, Minute: 1}},
		{"hour rollover", Time{Day: 1, Hour: 8, Minute: 59}, 1, Time{Day: 1, Hour: 9, Minute: 0}},
		{"day rollover", Time{Day: 2, Hour: 23, Minute: 30}, 45, Time{Day: 3, Hour: 0, Minute: 15}},
		{"bulk skip", Time{Day: 1, Hour: 17, Minute: 0}, 15 * 60, Time{Day: 2, Hour: 8, Minute: 0}},
		{"negative ignored", Time{Day: 4, Hour: 10, Minute: 5}, -30, Time{Day: 4, Hour: 10, Minute: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Advance(tt.minutes))
		})
	}
}

func TestAdvanceMonotonic(t *testing.T) {
	tm := Start()
	prev := tm.TotalMinutes()
	for i := 0; i < 2000; i++ {
		tm = tm.Advance(7)
		assert.Greater(t, tm.TotalMinutes(), prev)
		prev = tm.TotalMinutes()
	}
}

func TestSlotInPast(t *testing.T) {
	now := Time{Day: 5, Hour: 10, Minute: 30}

	assert.True(t, now.SlotInPast(4, 16))
	assert.True(t, now.SlotInPast(5, 9))
	assert.True(t, now.SlotInPast(5, 10), "current hour counts as past once started")
	assert.False(t, now.SlotInPast(5, 11))
	assert.False(t, now.SlotInPast(6, 8))

	onTheHour := Time{Day: 5, Hour: 10, Minute: 0}
	assert.False(t, onTheHour.SlotInPast(5, 10))
}

func TestWorkHoursCovers(t *testing.T) {
	w := WorkHours{Start: 8, End: 17, LunchHour: 12}

	assert.True(t, w.Covers(8))
	assert.True(t, w.Covers(16))
	assert.False(t, w.Covers(12), "lunch break excluded")
	assert.False(t, w.Covers(7))
	assert.False(t, w.Covers(17), "end is exclusive")

	noLunch := WorkHours{Start: 8, End: 17, LunchHour: NoLunch}
	assert.True(t, noLunch.Covers(12))
}

func TestCoversSpan(t *testing.T) {
	w := WorkHours{Start: 8, End: 17, LunchHour: 12}

	assert.True(t, w.CoversSpan(9, 50))
	assert.True(t, w.CoversSpan(9, 80), "two-hour span inside window")
	assert.False(t, w.CoversSpan(11, 80), "span crosses lunch")
	assert.False(t, w.CoversSpan(16, 80), "span extends past closing")
	assert.False(t, w.CoversSpan(15, 180), "three-hour span extends past closing")
}

func TestSpanHours(t *testing.T) {
	assert.Equal(t, []int{10}, SpanHours(10, 50))
	assert.Equal(t, []int{10, 11}, SpanHours(10, 80))
	assert.Equal(t, []int{10, 11, 12}, SpanHours(10, 180))
}
