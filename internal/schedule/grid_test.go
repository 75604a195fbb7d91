package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
)

var testHours = gametime.WorkHours{Start: 8, End: 17, LunchHour: gametime.NoLunch}

func newSession(id, therapistID, clientID string, day, hour, duration int) *session.Session {
	return &session.Session{
		ID:              id,
		TherapistID:     therapistID,
		ClientID:        clientID,
		ScheduledDay:    day,
		ScheduledHour:   hour,
		DurationMinutes: duration,
		Status:          session.StatusScheduled,
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	g := make(Grid)
	s := newSession("s1", "t1", "c1", 5, 10, 80)

	g2 := Add(g, s)

	id, ok := g2.SessionAt(5, 10, "t1")
	require.True(t, ok)
	assert.Equal(t, "s1", id)
	_, ok = g2.SessionAt(5, 11, "t1")
	assert.True(t, ok, "80-minute session occupies two hour slots")

	_, ok = g.SessionAt(5, 10, "t1")
	assert.False(t, ok, "original grid untouched")

	g3 := Remove(g2, s)
	_, ok = g3.SessionAt(5, 10, "t1")
	assert.False(t, ok)
	_, ok = g3.SessionAt(5, 11, "t1")
	assert.False(t, ok)
	assert.Empty(t, g3, "emptied branches are pruned")

	id, ok = g2.SessionAt(5, 10, "t1")
	require.True(t, ok, "grid before removal still intact")
	assert.Equal(t, "s1", id)
}

func TestAddKeepsOneSessionPerSlot(t *testing.T) {
	s1 := newSession("s1", "t1", "c1", 5, 10, 50)
	s2 := newSession("s2", "t2", "c2", 5, 10, 50)

	g := Add(Add(make(Grid), s1), s2)

	id, _ := g.SessionAt(5, 10, "t1")
	assert.Equal(t, "s1", id)
	id, _ = g.SessionAt(5, 10, "t2")
	assert.Equal(t, "s2", id, "different therapists share the hour")
}

func TestRemoveIgnoresForeignSession(t *testing.T) {
	s1 := newSession("s1", "t1", "c1", 5, 10, 50)
	g := Add(make(Grid), s1)

	// Same slot, different session id: must not clear s1's reservation.
	impostor := newSession("s2", "t1", "c2", 5, 10, 50)
	g2 := Remove(g, impostor)

	id, ok := g2.SessionAt(5, 10, "t1")
	require.True(t, ok)
	assert.Equal(t, "s1", id)
}

func TestBuildFromSessions(t *testing.T) {
	sessions := []*session.Session{
		newSession("s1", "t1", "c1", 5, 10, 50),
		newSession("s2", "t1", "c2", 5, 14, 80),
		newSession("s3", "t2", "c3", 6, 9, 50),
	}
	cancelled := newSession("s4", "t1", "c4", 5, 9, 50)
	cancelled.Status = session.StatusCancelled
	sessions = append(sessions, cancelled)

	g := BuildFromSessions(sessions)

	_, ok := g.SessionAt(5, 10, "t1")
	assert.True(t, ok)
	_, ok = g.SessionAt(5, 15, "t1")
	assert.True(t, ok, "second hour of 80-minute session")
	_, ok = g.SessionAt(6, 9, "t2")
	assert.True(t, ok)
	_, ok = g.SessionAt(5, 9, "t1")
	assert.False(t, ok, "cancelled sessions never occupy slots")

	// Idempotent: rebuilding gives the same occupancy.
	g2 := BuildFromSessions(sessions)
	assert.Equal(t, g, g2)
}

func TestIsSlotAvailable(t *testing.T) {
	g := Add(make(Grid), newSession("s1", "t1", "c1", 5, 10, 50))

	assert.False(t, IsSlotAvailable(g, "t1", 5, 10, 50, testHours), "occupied")
	assert.True(t, IsSlotAvailable(g, "t1", 5, 11, 50, testHours))
	assert.True(t, IsSlotAvailable(g, "t2", 5, 10, 50, testHours), "other therapist")

	assert.False(t, IsSlotAvailable(g, "t1", 5, 9, 80, testHours), "span collides with occupied 10:00")
	assert.False(t, IsSlotAvailable(g, "t1", 5, 16, 80, testHours), "span extends past closing")
	assert.False(t, IsSlotAvailable(g, "t1", 5, 7, 50, testHours), "before opening")

	withLunch := gametime.WorkHours{Start: 8, End: 17, LunchHour: 12}
	assert.False(t, IsSlotAvailable(g, "t1", 5, 12, 50, withLunch), "lunch break excluded")
	assert.False(t, IsSlotAvailable(g, "t1", 5, 11, 80, withLunch), "span crosses lunch")
}

func TestConflicts(t *testing.T) {
	g := Add(make(Grid), newSession("s1", "t1", "c1", 5, 10, 80))

	conflicts := Conflicts(g, "t1", 5, 9, 180)
	require.Len(t, conflicts, 2)
	assert.Equal(t, 10, conflicts[0].Hour)
	assert.Equal(t, "s1", conflicts[0].SessionID)
	assert.Contains(t, conflicts[0].Reason, "s1")
	assert.Equal(t, 11, conflicts[1].Hour)

	assert.Empty(t, Conflicts(g, "t1", 5, 13, 80))
}

func TestClientHasConflictingSession(t *testing.T) {
	sessions := []*session.Session{
		newSession("s1", "t1", "c1", 5, 10, 80),
	}

	assert.True(t, ClientHasConflictingSession(sessions, "c1", 5, 10, 50))
	assert.True(t, ClientHasConflictingSession(sessions, "c1", 5, 11, 50),
		"interval overlap, not point equality: 80-minute session reaches into 11:00")
	assert.False(t, ClientHasConflictingSession(sessions, "c1", 5, 12, 50))
	assert.False(t, ClientHasConflictingSession(sessions, "c1", 6, 10, 50), "different day")
	assert.False(t, ClientHasConflictingSession(sessions, "c2", 5, 10, 50), "different client")

	sessions[0].Status = session.StatusCompleted
	assert.False(t, ClientHasConflictingSession(sessions, "c1", 5, 10, 50),
		"completed sessions no longer block")
}

func TestSessionCountOn(t *testing.T) {
	g := make(Grid)
	g = Add(g, newSession("s1", "t1", "c1", 5, 9, 80))
	g = Add(g, newSession("s2", "t1", "c2", 5, 14, 50))
	g = Add(g, newSession("s3", "t2", "c3", 5, 9, 50))

	assert.Equal(t, 2, g.SessionCountOn(5, "t1"), "multi-hour session counts once")
	assert.Equal(t, 1, g.SessionCountOn(5, "t2"))
	assert.Equal(t, 0, g.SessionCountOn(6, "t1"))
}
