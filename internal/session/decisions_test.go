package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

func TestEligibleEventsFilters(t *testing.T) {
	deck := DefaultDecisionEvents()

	mild := &clients.Client{Severity: 3, ConditionCategory: "adjustment"}
	for _, e := range EligibleEvents(deck, mild) {
		assert.NotEqual(t, "crisis_disclosure", e.ID, "severity gate")
		assert.NotEqual(t, "trauma_flashback", e.ID, "category gate")
	}

	severe := &clients.Client{Severity: 8, ConditionCategory: "trauma"}
	ids := map[string]bool{}
	for _, e := range EligibleEvents(deck, severe) {
		ids[e.ID] = true
	}
	assert.True(t, ids["crisis_disclosure"])
	assert.True(t, ids["trauma_flashback"])
	assert.False(t, ids["breakthrough_insight"], "max severity gate")
}

func TestMaybeTriggerDecisionThreshold(t *testing.T) {
	r := rules.Default()
	cl := &clients.Client{Severity: 5}
	rng := rand.New(rand.NewSource(1))

	s := &Session{Status: StatusInProgress, Progress: 0.1, DurationMinutes: 50}
	for i := 0; i < 1000; i++ {
		assert.Nil(t, MaybeTriggerDecision(s, cl, DefaultDecisionEvents(), r.DecisionMinProgress, r.DecisionChancePerProgress, rng),
			"never before the minimum progress threshold")
	}
}

func TestMaybeTriggerDecisionFiresOnce(t *testing.T) {
	r := rules.Default()
	cl := &clients.Client{Severity: 5}
	rng := rand.New(rand.NewSource(7))

	s := &Session{Status: StatusInProgress, Progress: 0.9, DurationMinutes: 50}

	var fired *DecisionEvent
	for i := 0; i < 10000 && fired == nil; i++ {
		fired = MaybeTriggerDecision(s, cl, DefaultDecisionEvents(), r.DecisionMinProgress, r.DecisionChancePerProgress, rng)
	}
	require.NotNil(t, fired, "an event fires eventually at high progress")
	assert.True(t, s.DecisionTriggered)
	assert.Equal(t, fired.ID, s.PendingDecisionID)

	for i := 0; i < 1000; i++ {
		assert.Nil(t, MaybeTriggerDecision(s, cl, DefaultDecisionEvents(), r.DecisionMinProgress, r.DecisionChancePerProgress, rng),
			"at most one event per session")
	}
}

func TestMaybeTriggerDecisionChanceScale(t *testing.T) {
	r := rules.Default()
	cl := &clients.Client{Severity: 5}
	rng := rand.New(rand.NewSource(3))

	s := &Session{Status: StatusInProgress, Progress: 1, DurationMinutes: 50}
	for i := 0; i < 1000; i++ {
		assert.Nil(t, MaybeTriggerDecision(s, cl, DefaultDecisionEvents(), r.DecisionMinProgress, 0, rng),
			"a zero chance scale disables decision events")
	}

	// Scale 1 at full progress makes the roll certain.
	fired := MaybeTriggerDecision(s, cl, DefaultDecisionEvents(), r.DecisionMinProgress, 1, rng)
	require.NotNil(t, fired)
	assert.Equal(t, fired.ID, s.PendingDecisionID)
}

func TestApplyDecision(t *testing.T) {
	th := &therapist.Therapist{Energy: 50, MaxEnergy: 100}
	event := DecisionEvent{
		ID: "crisis_disclosure",
		Choices: []DecisionChoice{
			{Label: "assess", QualityDelta: 0.1, EnergyDelta: -10},
			{Label: "deflect", QualityDelta: -0.15, EnergyDelta: 0},
		},
	}
	s := &Session{
		Status:            StatusInProgress,
		Quality:           0.6,
		DecisionTriggered: true,
		PendingDecisionID: "crisis_disclosure",
	}

	require.NoError(t, ApplyDecision(s, th, event, 0))
	assert.InDelta(t, 0.7, s.Quality, 1e-9)
	assert.Equal(t, float64(40), th.Energy)
	assert.Empty(t, s.PendingDecisionID)
	require.Len(t, s.DecisionsMade, 1)
	assert.Equal(t, "crisis_disclosure", s.DecisionsMade[0].EventID)
	assert.True(t, s.HadCrisisDecision())
}

func TestApplyDecisionOutOfRange(t *testing.T) {
	th := &therapist.Therapist{Energy: 50, MaxEnergy: 100}
	event := DecisionEvent{ID: "e1", Choices: []DecisionChoice{{Label: "only"}}}
	s := &Session{Status: StatusInProgress, PendingDecisionID: "e1"}

	assert.ErrorIs(t, ApplyDecision(s, th, event, 3), ErrChoiceOutOfRange)
	assert.ErrorIs(t, ApplyDecision(s, th, event, -1), ErrChoiceOutOfRange)
	assert.Empty(t, s.DecisionsMade)
}

func TestApplyDecisionNoPending(t *testing.T) {
	th := &therapist.Therapist{Energy: 50, MaxEnergy: 100}
	event := DecisionEvent{ID: "e1", Choices: []DecisionChoice{{Label: "only"}}}
	s := &Session{Status: StatusInProgress}

	assert.ErrorIs(t, ApplyDecision(s, th, event, 0), ErrNoPendingDecision)
}

func TestHadCrisisDecision(t *testing.T) {
	s := &Session{DecisionsMade: []DecisionRecord{{EventID: "boundary_request"}}}
	assert.False(t, s.HadCrisisDecision())

	s.DecisionsMade = append(s.DecisionsMade, DecisionRecord{EventID: "trauma_flashback"})
	assert.True(t, s.HadCrisisDecision())
}
