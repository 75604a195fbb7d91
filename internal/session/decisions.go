package session

import (
	"errors"
	"math/rand"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// ErrChoiceOutOfRange is returned when a decision is applied with a choice
// index the event does not have.
var ErrChoiceOutOfRange = errors.New("session: decision choice index out of range")

// ErrNoPendingDecision is returned when a decision is applied to a session
// with no event waiting for an answer.
var ErrNoPendingDecision = errors.New("session: no pending decision event")

// DecisionChoice is one way the therapist can respond to an in-session
// event. Deltas apply to session quality and therapist energy.
type DecisionChoice struct {
	Label        string  `json:"label"`
	QualityDelta float64 `json:"qualityDelta"`
	EnergyDelta  float64 `json:"energyDelta"`
}

// TriggerConditions filter which clients an event can fire for. Zero
// values mean unconstrained.
type TriggerConditions struct {
	MinSeverity int      `json:"minSeverity,omitempty"`
	MaxSeverity int      `json:"maxSeverity,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// DecisionEvent is a mid-session fork the player must resolve. Events
// whose id contains "crisis" or "trauma" expose the client to regression
// risk at completion.
type DecisionEvent struct {
	ID      string            `json:"id"`
	Prompt  string            `json:"prompt"`
	Choices []DecisionChoice  `json:"choices"`
	Trigger TriggerConditions `json:"trigger"`
}

// Matches reports whether the event can fire for a client.
func (e DecisionEvent) Matches(cl *clients.Client) bool {
	if e.Trigger.MinSeverity > 0 && cl.Severity < e.Trigger.MinSeverity {
		return false
	}
	if e.Trigger.MaxSeverity > 0 && cl.Severity > e.Trigger.MaxSeverity {
		return false
	}
	if len(e.Trigger.Categories) > 0 {
		found := false
		for _, cat := range e.Trigger.Categories {
			if cat == cl.ConditionCategory {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DefaultDecisionEvents returns the stock in-session event deck.
func DefaultDecisionEvents() []DecisionEvent {
	return []DecisionEvent{
		{
			ID:      "crisis_disclosure",
			Prompt:  "The client discloses thoughts of self-harm.",
			Trigger: TriggerConditions{MinSeverity: 7},
			Choices: []DecisionChoice{
				{Label: "Pause and run a full safety assessment", QualityDelta: 0.1, EnergyDelta: -10},
				{Label: "Acknowledge and steer back to the agenda", QualityDelta: -0.15, EnergyDelta: 0},
			},
		},
		{
			ID:      "trauma_flashback",
			Prompt:  "A grounding exercise triggers a vivid flashback.",
			Trigger: TriggerConditions{MinSeverity: 6, Categories: []string{"trauma", "anxiety"}},
			Choices: []DecisionChoice{
				{Label: "Stop the exercise and co-regulate", QualityDelta: 0.08, EnergyDelta: -8},
				{Label: "Push through the exposure", QualityDelta: -0.1, EnergyDelta: -5},
			},
		},
		{
			ID:     "resistance_silence",
			Prompt: "The client goes quiet and refuses to engage.",
			Choices: []DecisionChoice{
				{Label: "Sit with the silence", QualityDelta: 0.05, EnergyDelta: -3},
				{Label: "Fill the gap with psychoeducation", QualityDelta: -0.05, EnergyDelta: 2},
			},
		},
		{
			ID:      "breakthrough_insight",
			Prompt:  "The client connects a pattern for the first time.",
			Trigger: TriggerConditions{MaxSeverity: 8},
			Choices: []DecisionChoice{
				{Label: "Slow down and consolidate the insight", QualityDelta: 0.12, EnergyDelta: -2},
				{Label: "Celebrate and move on", QualityDelta: 0.03, EnergyDelta: 0},
			},
		},
		{
			ID:     "boundary_request",
			Prompt: "The client asks for your personal phone number.",
			Choices: []DecisionChoice{
				{Label: "Hold the boundary and explore the request", QualityDelta: 0.06, EnergyDelta: -4},
				{Label: "Deflect with a joke", QualityDelta: -0.04, EnergyDelta: 1},
			},
		},
	}
}

// EligibleEvents filters the deck by a client's severity and condition.
func EligibleEvents(deck []DecisionEvent, cl *clients.Client) []DecisionEvent {
	var out []DecisionEvent
	for _, e := range deck {
		if e.Matches(cl) {
			out = append(out, e)
		}
	}
	return out
}

// MaybeTriggerDecision rolls for a decision event on an in-progress
// session. At most one event fires per session, never before the minimum
// progress threshold, and the trigger chance scales with how far the
// session has run. Returns the fired event, or nil.
func MaybeTriggerDecision(s *Session, cl *clients.Client, deck []DecisionEvent, minProgress, chanceScale float64, rng *rand.Rand) *DecisionEvent {
	if s.Status != StatusInProgress || s.DecisionTriggered || s.Progress < minProgress {
		return nil
	}
	eligible := EligibleEvents(deck, cl)
	if len(eligible) == 0 {
		return nil
	}
	// Per-check chance grows with elapsed fraction; over a full session
	// this accumulates to roughly one event for most clients.
	chance := chanceScale * s.Progress
	if rng.Float64() >= chance {
		return nil
	}
	event := eligible[rng.Intn(len(eligible))]
	s.DecisionTriggered = true
	s.PendingDecisionID = event.ID
	return &event
}

// ApplyDecision resolves the pending event with the chosen option: the
// quality delta folds into the session score, the energy delta moves the
// therapist (clamped to [0, MaxEnergy]), and the decision is recorded for
// regression-risk detection at completion.
func ApplyDecision(s *Session, th *therapist.Therapist, event DecisionEvent, choiceIndex int) error {
	if s.PendingDecisionID != event.ID {
		return ErrNoPendingDecision
	}
	if choiceIndex < 0 || choiceIndex >= len(event.Choices) {
		return ErrChoiceOutOfRange
	}

	choice := event.Choices[choiceIndex]
	s.AddQualityModifier("decision:"+event.ID, choice.QualityDelta, choice.Label)
	if choice.EnergyDelta < 0 {
		th.SpendEnergy(-choice.EnergyDelta)
	} else if choice.EnergyDelta > 0 {
		th.RecoverEnergy(choice.EnergyDelta)
	}

	s.DecisionsMade = append(s.DecisionsMade, DecisionRecord{
		EventID:      event.ID,
		ChoiceIndex:  choiceIndex,
		QualityDelta: choice.QualityDelta,
		EnergyDelta:  choice.EnergyDelta,
	})
	s.PendingDecisionID = ""
	return nil
}
