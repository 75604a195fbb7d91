// Package insurance implements the claims pipeline: claim creation with
// delayed payment, probabilistic denial with categorized reasons, and the
// appeal window and resolution flow.
package insurance

// ClaimStatus is a claim's position in the payment lifecycle.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimPaid     ClaimStatus = "paid"
	ClaimDenied   ClaimStatus = "denied"
	ClaimAppealed ClaimStatus = "appealed"
)

// DenialReason categorizes why an insurer refused a claim. Each category
// carries its own appeal success rate; appeals are not a flat coin flip.
type DenialReason struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	Weight            int     `json:"weight"`
	AppealSuccessRate float64 `json:"appealSuccessRate"`
}

// DefaultDenialReasons returns the stock denial-reason table. Weights are
// relative; they happen to sum to 100.
func DefaultDenialReasons() []DenialReason {
	return []DenialReason{
		{ID: "documentation", Description: "Insufficient documentation", Weight: 30, AppealSuccessRate: 0.75},
		{ID: "medical_necessity", Description: "Medical necessity not established", Weight: 25, AppealSuccessRate: 0.35},
		{ID: "coding_error", Description: "Billing code error", Weight: 20, AppealSuccessRate: 0.85},
		{ID: "session_limit", Description: "Covered session limit exceeded", Weight: 10, AppealSuccessRate: 0.2},
		{ID: "prior_auth", Description: "Prior authorization missing", Weight: 10, AppealSuccessRate: 0.6},
		{ID: "out_of_network", Description: "Provider out of network", Weight: 5, AppealSuccessRate: 0.1},
	}
}

// Panel is an insurer's membership agreement with the practice.
type Panel struct {
	InsurerID     string  `json:"insurerId"`
	Name          string  `json:"name"`
	Reimbursement int     `json:"reimbursement"`
	DelayDays     int     `json:"delayDays"`
	DenialRate    float64 `json:"denialRate"`
	MinReputation int     `json:"minReputation"`
}

// PendingClaim tracks one session's reimbursement through the pipeline.
type PendingClaim struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	InsurerID string `json:"insurerId"`
	Amount    int    `json:"amount"`

	// ScheduledPaymentDay is when the claim resolves next: the insurer's
	// payment date while pending, or the appeal decision date once
	// appealed.
	ScheduledPaymentDay int `json:"scheduledPaymentDay"`

	Status       ClaimStatus   `json:"status"`
	DenialReason *DenialReason `json:"denialReason,omitempty"`

	AppealDeadlineDay  int `json:"appealDeadlineDay,omitempty"`
	AppealSubmittedDay int `json:"appealSubmittedDay,omitempty"`
}

// Appealable reports whether the claim can still be appealed on the given
// day: it must be denied for a recorded reason, inside the appeal window,
// and not already appealed.
func (c *PendingClaim) Appealable(currentDay int) bool {
	return c.Status == ClaimDenied &&
		c.DenialReason != nil &&
		c.AppealDeadlineDay >= currentDay &&
		c.AppealSubmittedDay == 0
}
