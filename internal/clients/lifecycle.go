package clients

import (
	"math"

	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
)

// WaitingListResult partitions the waiting list after an attrition pass.
type WaitingListResult struct {
	Remaining []*Client
	Dropped   []*Client
}

// ProcessWaitingList applies waiting-list attrition up to currentDay.
// Each waiting client loses satisfaction for every day elapsed since the
// list was last processed, then drops out when they have waited past
// MaxWaitDays or their satisfaction has fallen below the floor. Clients in
// treatment or already resolved are untouched.
func ProcessWaitingList(list []*Client, currentDay int, r rules.WaitingRules) WaitingListResult {
	var result WaitingListResult
	for _, c := range list {
		if c.Status != StatusWaiting {
			result.Remaining = append(result.Remaining, c)
			continue
		}

		elapsed := currentDay - (c.ArrivalDay + c.DaysWaiting)
		if elapsed > 0 {
			c.DaysWaiting += elapsed
			c.Satisfaction = clampPercent(c.Satisfaction - r.SatisfactionDecayPerDay*float64(elapsed))
		}

		if c.DaysWaiting > c.MaxWaitDays || c.Satisfaction < r.MinSatisfaction {
			c.Status = StatusDropped
			result.Dropped = append(result.Dropped, c)
			continue
		}
		result.Remaining = append(result.Remaining, c)
	}
	return result
}

// ProcessSessionOutcome applies a completed session's quality to the
// client. Satisfaction and engagement move linearly with quality around a
// 0.5 midpoint, the session counts toward the plan, and treatment
// completes once the plan is finished or progress reaches 1.
func ProcessSessionOutcome(c *Client, quality float64) {
	c.Satisfaction = clampPercent(c.Satisfaction + SatisfactionDelta(quality))
	c.Engagement = clampPercent(c.Engagement + math.Round(10*(quality-0.5)))
	c.SessionsCompleted++
	if c.TreatmentComplete() {
		c.Status = StatusCompleted
	}
}

// SatisfactionDelta is the satisfaction change a session of the given
// quality produces.
func SatisfactionDelta(quality float64) float64 {
	return math.Round(5 * (2*quality - 0.5))
}

// AddTreatmentProgress folds progress gained into the client, clamped to
// [0, 1], and completes treatment when warranted.
func AddTreatmentProgress(c *Client, gained float64) {
	c.TreatmentProgress = clamp01(c.TreatmentProgress + gained)
	if c.TreatmentComplete() {
		c.Status = StatusCompleted
	}
}

// TreatmentComplete reports whether the client's plan is finished, either
// by session count or by full treatment progress.
func (c *Client) TreatmentComplete() bool {
	return c.SessionsCompleted >= c.SessionsRequired || c.TreatmentProgress >= 1
}

// RiskLevel grades a client's dropout risk.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CheckDropoutRisk tiers a client's dropout risk by satisfaction and
// engagement. The tiers are monotonic: lower scores never reduce the risk.
func CheckDropoutRisk(c *Client) RiskLevel {
	switch {
	case c.Satisfaction < 30 || c.Engagement < 20:
		return RiskHigh
	case c.Satisfaction < 50 || c.Engagement < 40:
		return RiskMedium
	case c.Satisfaction < 65 || c.Engagement < 55:
		return RiskLow
	default:
		return RiskNone
	}
}
