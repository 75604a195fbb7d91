package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

func testFixtures() (*Session, *therapist.Therapist, *clients.Client) {
	s := &Session{
		ID:              "s1",
		TherapistID:     "t1",
		ClientID:        "c1",
		ScheduledDay:    5,
		ScheduledHour:   10,
		DurationMinutes: 50,
		Status:          StatusScheduled,
		EnergyCost:      15,
	}
	th := &therapist.Therapist{
		ID:        "t1",
		BaseSkill: 50,
		Energy:    100,
		MaxEnergy: 100,
		Level:     1,
		Status:    therapist.StatusAvailable,
	}
	cl := &clients.Client{
		ID:                "c1",
		Status:            clients.StatusInTreatment,
		Satisfaction:      70,
		Engagement:        60,
		Severity:          5,
		SessionsRequired:  8,
		PreferredModality: clients.ModalityNoPreference,
	}
	return s, th, cl
}

func TestShouldStart(t *testing.T) {
	s, _, _ := testFixtures()

	assert.True(t, ShouldStart(s, gametime.Time{Day: 5, Hour: 10, Minute: 0}))
	assert.False(t, ShouldStart(s, gametime.Time{Day: 5, Hour: 10, Minute: 1}), "only at minute zero")
	assert.False(t, ShouldStart(s, gametime.Time{Day: 5, Hour: 9, Minute: 0}))
	assert.False(t, ShouldStart(s, gametime.Time{Day: 4, Hour: 10, Minute: 0}))

	s.Status = StatusInProgress
	assert.False(t, ShouldStart(s, gametime.Time{Day: 5, Hour: 10, Minute: 0}))
}

func TestStartQualityBaseline(t *testing.T) {
	s, th, cl := testFixtures()
	r := rules.Default()

	Start(s, th, cl, r)

	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, therapist.StatusInSession, th.Status)

	// baseline 0.5 + skill 50/100*0.3 + energy (1-0.5)*0.2 + engagement 60/100*0.15
	assert.InDelta(t, 0.5+0.15+0.1+0.09, s.Quality, 1e-9)
	assert.Len(t, s.QualityModifiers, 4)
}

func TestStartModifiers(t *testing.T) {
	r := rules.Default()

	t.Run("specialization and certification", func(t *testing.T) {
		s, th, cl := testFixtures()
		cl.ConditionCategory = "trauma"
		cl.RequiredCertification = therapist.CertTrauma
		th.Specializations = []string{"trauma"}
		th.Certifications = []therapist.Certification{therapist.CertTrauma}

		Start(s, th, cl, r)
		assert.InDelta(t, 0.84+0.1+0.05, s.Quality, 1e-9)
	})

	t.Run("virtual mismatch penalty", func(t *testing.T) {
		s, th, cl := testFixtures()
		s.IsVirtual = true
		cl.PreferredModality = clients.ModalityInPerson

		Start(s, th, cl, r)
		assert.InDelta(t, 0.84-0.05, s.Quality, 1e-9)
	})

	t.Run("high severity penalty", func(t *testing.T) {
		s, th, cl := testFixtures()
		cl.Severity = 10

		Start(s, th, cl, r)
		assert.InDelta(t, 0.84-0.05, s.Quality, 1e-9, "-0.05*(10-6)/4")
	})

	t.Run("quality clamped to one", func(t *testing.T) {
		s, th, cl := testFixtures()
		th.BaseSkill = 100
		cl.Engagement = 100
		cl.ConditionCategory = "anxiety"
		th.Specializations = []string{"anxiety"}

		Start(s, th, cl, r)
		assert.LessOrEqual(t, s.Quality, 1.0)
	})

	t.Run("waiting client moves to treatment", func(t *testing.T) {
		s, th, cl := testFixtures()
		cl.Status = clients.StatusWaiting

		Start(s, th, cl, r)
		assert.Equal(t, clients.StatusInTreatment, cl.Status)
	})
}

func TestTickProgress(t *testing.T) {
	s, th, cl := testFixtures()
	Start(s, th, cl, rules.Default())

	Tick(s, 25)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
	assert.False(t, IsSessionComplete(s))

	Tick(s, 30)
	assert.Equal(t, 1.0, s.Progress, "clamped at 1")
	assert.True(t, IsSessionComplete(s))
}

func TestTickIgnoresNonRunningSessions(t *testing.T) {
	s, _, _ := testFixtures()
	Tick(s, 25)
	assert.Equal(t, 0.0, s.Progress, "scheduled sessions don't progress")
}

func TestIsSessionCompleteIdempotence(t *testing.T) {
	s, _, _ := testFixtures()
	s.Status = StatusCompleted
	s.Progress = 1
	assert.False(t, IsSessionComplete(s), "completed sessions are not completable again")
}

func TestCompleteArithmetic(t *testing.T) {
	s, th, cl := testFixtures()
	r := rules.Default()
	s.Status = StatusInProgress
	s.Progress = 1
	s.Quality = 0.8
	s.Payment = 150

	result := Complete(s, th, cl, r, 1)

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 27, result.XPAwarded, "round(10*1*1.5*1.8)")
	assert.Equal(t, 150, result.Payment)
	assert.Equal(t, therapist.StatusAvailable, th.Status)
	assert.Equal(t, float64(85), th.Energy, "energy cost drained")
	assert.Equal(t, 1, cl.SessionsCompleted)
	assert.Equal(t, 5, cl.LastSessionDay)
}

func TestCompleteMidQualityXP(t *testing.T) {
	s, th, cl := testFixtures()
	r := rules.Default()
	s.Status = StatusInProgress
	s.Progress = 1
	s.Quality = 0.6

	result := Complete(s, th, cl, r, 1)
	assert.Equal(t, 16, result.XPAwarded, "round(10*1*1*1.6), no bonus below 0.75")
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LeveledUp)
}

func TestCompletePreservesManualStatus(t *testing.T) {
	s, th, cl := testFixtures()
	s.Status = StatusInProgress
	s.Progress = 1
	th.Status = therapist.StatusOnBreak

	Complete(s, th, cl, rules.Default(), 1)
	assert.Equal(t, therapist.StatusOnBreak, th.Status,
		"only in_session resets to available")
}

func TestCompleteDeterministicForSeed(t *testing.T) {
	r := rules.Default()

	run := func() CompletionResult {
		s, th, cl := testFixtures()
		s.Status = StatusInProgress
		s.Progress = 1
		s.Quality = 0.95
		return Complete(s, th, cl, r, 1234)
	}

	first := run()
	second := run()
	assert.Equal(t, first.ProgressGained, second.ProgressGained)
	assert.Equal(t, first.ProgressType, second.ProgressType)
}

func TestCancel(t *testing.T) {
	s, th, cl := testFixtures()
	r := rules.Default()
	th.Status = therapist.StatusInSession

	ok := Cancel(s, th, cl, "client no-show", r)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, s.Status)
	assert.Equal(t, therapist.StatusAvailable, th.Status)
	assert.Equal(t, float64(60), cl.Satisfaction, "flat 10-point penalty")

	require.Len(t, s.QualityModifiers, 1)
	assert.Equal(t, 0.0, s.QualityModifiers[0].Value)
	assert.Equal(t, "client no-show", s.QualityModifiers[0].Description)
}

func TestCancelTerminalStates(t *testing.T) {
	r := rules.Default()

	s, th, cl := testFixtures()
	s.Status = StatusCompleted
	assert.False(t, Cancel(s, th, cl, "late", r))

	s.Status = StatusCancelled
	assert.False(t, Cancel(s, th, cl, "late", r))
}

func TestCancelPreservesManualTherapistStatus(t *testing.T) {
	s, th, cl := testFixtures()
	th.Status = therapist.StatusInTraining

	Cancel(s, th, cl, "rescheduled", rules.Default())
	assert.Equal(t, therapist.StatusInTraining, th.Status)
}
