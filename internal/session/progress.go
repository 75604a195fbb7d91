package session

import (
	"math/rand"

	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
)

// ProgressType names the branch of the treatment-progress model a session
// resolved through.
type ProgressType string

const (
	ProgressRegression   ProgressType = "regression"
	ProgressBreakthrough ProgressType = "breakthrough"
	ProgressPlateau      ProgressType = "plateau"
	ProgressNormal       ProgressType = "normal"
)

// ProgressOutcome is the resolved treatment progress for one session.
type ProgressOutcome struct {
	Gained float64      `json:"gained"`
	Type   ProgressType `json:"type"`
}

// TreatmentProgress resolves how much treatment progress a completed
// session produces. The branches are checked strictly in order —
// regression, breakthrough, plateau, normal — because their conditions can
// hold simultaneously and the earlier branch must win. One PRNG stream is
// seeded per call, so the outcome is a pure function of its arguments.
func TreatmentProgress(r rules.ProgressRules, quality, satisfaction float64, hadCrisis bool, seed int64) ProgressOutcome {
	rng := rand.New(rand.NewSource(seed))
	base := r.BaseRate * quality

	if hadCrisis && rng.Float64() < r.RegressionChance {
		gained := base - r.RegressionLoss
		if gained < 0 {
			gained = 0
		}
		return ProgressOutcome{Gained: gained, Type: ProgressRegression}
	}
	if quality >= r.BreakthroughQuality && rng.Float64() < r.BreakthroughChance {
		return ProgressOutcome{Gained: base * r.BreakthroughFactor, Type: ProgressBreakthrough}
	}
	if satisfaction < r.PlateauSatisfaction && rng.Float64() < r.PlateauChance {
		return ProgressOutcome{Gained: base * r.PlateauFactor, Type: ProgressPlateau}
	}
	return ProgressOutcome{Gained: base, Type: ProgressNormal}
}
