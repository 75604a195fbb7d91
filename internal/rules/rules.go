// Package rules holds the gameplay tunables the simulation engine consumes.
// Balancing lives here, not in the mechanics: the engine reads these tables
// and never hardcodes them.
package rules

import "github.com/tycoonlabs/therapy-tycoon/internal/gametime"

// Rules bundles every tunable the engine reads.
type Rules struct {
	// BusinessHours is the practice-wide bookable window. Therapists may
	// override it with a custom window.
	BusinessHours gametime.WorkHours

	// MaxSessionsPerTherapistPerDay caps how many sessions one therapist
	// can hold in a single day.
	MaxSessionsPerTherapistPerDay int

	// SessionDurations lists the legal session lengths in minutes.
	SessionDurations []int

	// EnergyCost maps session duration to the energy a therapist spends.
	EnergyCost map[int]int

	// PaymentMultiplier maps session duration to the rate multiplier
	// applied on top of the client's base session rate.
	PaymentMultiplier map[int]float64

	// IdleEnergyRecoveryPerHour is regained by therapists not in session
	// during business hours.
	IdleEnergyRecoveryPerHour int

	// BaseQuality is the quality baseline every session starts from
	// before modifiers.
	BaseQuality float64

	// DecisionMinProgress is the fraction of a session that must elapse
	// before a decision event may trigger.
	DecisionMinProgress float64

	// DecisionChancePerProgress scales a session's elapsed fraction into
	// the per-minute chance of a decision event firing.
	DecisionChancePerProgress float64

	Progress ProgressRules
	Waiting  WaitingRules
	Claims   ClaimRules

	// CancelSatisfactionPenalty is the flat satisfaction hit a client
	// takes when their session is cancelled.
	CancelSatisfactionPenalty float64

	// DueSoonDays is the window within which a client's next session
	// counts as due soon for booking suggestions.
	DueSoonDays int

	// RetentionDays is how far back completed history is kept when a
	// save snapshot is pruned.
	RetentionDays int
}

// ProgressRules parameterizes the non-linear treatment-progress model.
type ProgressRules struct {
	// BaseRate scales session quality into baseline progress gained.
	BaseRate float64

	RegressionChance float64
	RegressionLoss   float64

	BreakthroughChance  float64
	BreakthroughQuality float64
	BreakthroughFactor  float64

	PlateauChance       float64
	PlateauSatisfaction float64
	PlateauFactor       float64
}

// WaitingRules parameterizes waiting-list attrition.
type WaitingRules struct {
	// SatisfactionDecayPerDay is lost per day a client waits unscheduled.
	SatisfactionDecayPerDay float64

	// MinSatisfaction is the floor below which a waiting client drops out.
	MinSatisfaction float64
}

// ClaimRules parameterizes the insurance appeal timeline.
type ClaimRules struct {
	AppealWindowDays     int
	AppealResolutionDays int
}

// Default returns the standard balance used by the game.
func Default() Rules {
	return Rules{
		BusinessHours:                 gametime.WorkHours{Start: 8, End: 17, LunchHour: gametime.NoLunch},
		MaxSessionsPerTherapistPerDay: 6,
		SessionDurations:              []int{50, 80, 180},
		EnergyCost: map[int]int{
			50:  15,
			80:  25,
			180: 50,
		},
		PaymentMultiplier: map[int]float64{
			50:  1.0,
			80:  1.5,
			180: 3.0,
		},
		IdleEnergyRecoveryPerHour: 5,
		BaseQuality:               0.5,
		DecisionMinProgress:       0.2,
		DecisionChancePerProgress: 0.02,
		Progress: ProgressRules{
			BaseRate:            0.1,
			RegressionChance:    0.3,
			RegressionLoss:      0.02,
			BreakthroughChance:  0.2,
			BreakthroughQuality: 0.9,
			BreakthroughFactor:  2.0,
			PlateauChance:       0.15,
			PlateauSatisfaction: 50,
			PlateauFactor:       0.25,
		},
		Waiting: WaitingRules{
			SatisfactionDecayPerDay: 2,
			MinSatisfaction:         30,
		},
		Claims: ClaimRules{
			AppealWindowDays:     14,
			AppealResolutionDays: 7,
		},
		CancelSatisfactionPenalty: 10,
		DueSoonDays:               3,
		RetentionDays:             14,
	}
}

// ValidDuration reports whether a session length is one of the legal ones.
func (r Rules) ValidDuration(minutes int) bool {
	for _, d := range r.SessionDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// EnergyCostFor returns the energy cost for a duration, falling back to the
// 50-minute cost for unknown lengths.
func (r Rules) EnergyCostFor(minutes int) int {
	if cost, ok := r.EnergyCost[minutes]; ok {
		return cost
	}
	return r.EnergyCost[50]
}

// PaymentMultiplierFor returns the rate multiplier for a duration, falling
// back to 1.0 for unknown lengths.
func (r Rules) PaymentMultiplierFor(minutes int) float64 {
	if m, ok := r.PaymentMultiplier[minutes]; ok {
		return m
	}
	return 1.0
}
