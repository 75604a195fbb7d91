package insurance

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

var (
	// ErrClaimNotDenied is returned when appealing a claim that is not
	// in the denied state.
	ErrClaimNotDenied = errors.New("insurance: claim is not denied")

	// ErrAppealWindowExpired is returned when the appeal deadline has
	// passed.
	ErrAppealWindowExpired = errors.New("insurance: appeal window has expired")

	// ErrAlreadyAppealed is returned when a claim has already been
	// appealed once; there is no second appeal.
	ErrAlreadyAppealed = errors.New("insurance: claim has already been appealed")
)

// Pipeline processes claims against insurer panels. All randomness flows
// through one RNG handle so a seeded pipeline is fully deterministic.
type Pipeline struct {
	rules   rules.ClaimRules
	reasons []DenialReason
	rng     *rand.Rand
	logger  *logging.Logger
}

// NewPipeline builds a claims pipeline. A nil rng falls back to ambient
// (wall-clock seeded) randomness; pass a seeded rand.Rand for
// deterministic behavior.
func NewPipeline(r rules.ClaimRules, reasons []DenialReason, rng *rand.Rand, logger *logging.Logger) *Pipeline {
	if reasons == nil {
		reasons = DefaultDenialReasons()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{rules: r, reasons: reasons, rng: rng, logger: logger}
}

// CreateClaim opens a pending claim for a completed insurance session.
// The amount is the panel reimbursement scaled by the session's rate
// multiplier; payment is scheduled after the insurer's processing delay.
func (p *Pipeline) CreateClaim(panel Panel, sessionID string, multiplier float64, currentDay int) *PendingClaim {
	claim := &PendingClaim{
		ID:                  uuid.New().String(),
		SessionID:           sessionID,
		InsurerID:           panel.InsurerID,
		Amount:              int(math.Round(float64(panel.Reimbursement) * multiplier)),
		ScheduledPaymentDay: currentDay + panel.DelayDays,
		Status:              ClaimPending,
	}
	p.logger.Info("claim created",
		"claim_id", claim.ID,
		"insurer", panel.InsurerID,
		"amount", claim.Amount,
		"payment_day", claim.ScheduledPaymentDay,
	)
	return claim
}

// ClaimOutcomes partitions the claims resolved by a processing pass.
type ClaimOutcomes struct {
	Paid   []*PendingClaim
	Denied []*PendingClaim
}

// ProcessDueClaims resolves every pending claim whose payment day has
// arrived: each draws against its insurer's denial rate, and denials get a
// weighted-random reason plus an appeal deadline. Claims not yet due pass
// through untouched.
func (p *Pipeline) ProcessDueClaims(claims []*PendingClaim, currentDay int, panels map[string]Panel) ClaimOutcomes {
	var out ClaimOutcomes
	for _, c := range claims {
		if c.Status != ClaimPending || c.ScheduledPaymentDay > currentDay {
			continue
		}

		denialRate := panels[c.InsurerID].DenialRate
		if p.rng.Float64() < denialRate {
			reason := p.drawDenialReason()
			c.Status = ClaimDenied
			c.DenialReason = &reason
			c.AppealDeadlineDay = currentDay + p.rules.AppealWindowDays
			out.Denied = append(out.Denied, c)
			p.logger.Info("claim denied",
				"claim_id", c.ID,
				"reason", reason.ID,
				"appeal_deadline", c.AppealDeadlineDay,
			)
			continue
		}

		c.Status = ClaimPaid
		out.Paid = append(out.Paid, c)
		p.logger.Info("claim paid", "claim_id", c.ID, "amount", c.Amount)
	}
	return out
}

// SubmitAppeal files an appeal on a denied claim. On success the claim
// moves to appealed and its resolution is scheduled after the appeal
// processing delay.
func (p *Pipeline) SubmitAppeal(c *PendingClaim, currentDay int) error {
	if c.Status != ClaimDenied || c.DenialReason == nil {
		return ErrClaimNotDenied
	}
	if c.AppealSubmittedDay != 0 {
		return ErrAlreadyAppealed
	}
	if c.AppealDeadlineDay < currentDay {
		return ErrAppealWindowExpired
	}

	c.Status = ClaimAppealed
	c.AppealSubmittedDay = currentDay
	c.ScheduledPaymentDay = currentDay + p.rules.AppealResolutionDays
	p.logger.Info("appeal submitted",
		"claim_id", c.ID,
		"resolution_day", c.ScheduledPaymentDay,
	)
	return nil
}

// AppealOutcomes partitions appeals resolved by a processing pass.
type AppealOutcomes struct {
	Approved []*PendingClaim
	Rejected []*PendingClaim
}

// ProcessAppeals resolves appealed claims whose decision day has arrived.
// Success draws against the denial reason's own appeal success rate;
// approval pays the full original amount, rejection is final.
func (p *Pipeline) ProcessAppeals(claims []*PendingClaim, currentDay int) AppealOutcomes {
	var out AppealOutcomes
	for _, c := range claims {
		if c.Status != ClaimAppealed || c.ScheduledPaymentDay > currentDay {
			continue
		}

		rate := 0.0
		if c.DenialReason != nil {
			rate = c.DenialReason.AppealSuccessRate
		}
		if p.rng.Float64() < rate {
			c.Status = ClaimPaid
			out.Approved = append(out.Approved, c)
			p.logger.Info("appeal approved", "claim_id", c.ID, "amount", c.Amount)
		} else {
			c.Status = ClaimDenied
			out.Rejected = append(out.Rejected, c)
			p.logger.Info("appeal rejected", "claim_id", c.ID)
		}
	}
	return out
}

// drawDenialReason picks a reason by weighted random over the table.
func (p *Pipeline) drawDenialReason() DenialReason {
	total := 0
	for _, r := range p.reasons {
		total += r.Weight
	}
	draw := p.rng.Intn(total)
	for _, r := range p.reasons {
		draw -= r.Weight
		if draw < 0 {
			return r
		}
	}
	return p.reasons[len(p.reasons)-1]
}
