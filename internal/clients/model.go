// Package clients holds the client model and lifecycle: waiting-list
// attrition, treatment outcomes, dropout risk, and therapist matching.
package clients

import "github.com/tycoonlabs/therapy-tycoon/internal/therapist"

// Status is a client's treatment state. Transitions are one-directional:
// waiting -> in_treatment -> completed, with dropped reachable from
// waiting or in_treatment.
type Status string

const (
	StatusWaiting     Status = "waiting"
	StatusInTreatment Status = "in_treatment"
	StatusCompleted   Status = "completed"
	StatusDropped     Status = "dropped"
)

// Modality is a client's session-format preference.
type Modality string

const (
	ModalityInPerson     Modality = "in_person"
	ModalityVirtual      Modality = "virtual"
	ModalityNoPreference Modality = "no_preference"
)

// Client is a person seeking treatment at the practice.
type Client struct {
	ID                string `json:"id"`
	ConditionCategory string `json:"conditionCategory"`
	Severity          int    `json:"severity"`

	SessionsRequired  int     `json:"sessionsRequired"`
	SessionsCompleted int     `json:"sessionsCompleted"`
	TreatmentProgress float64 `json:"treatmentProgress"`

	Status       Status  `json:"status"`
	Satisfaction float64 `json:"satisfaction"`
	Engagement   float64 `json:"engagement"`

	IsPrivatePay      bool   `json:"isPrivatePay"`
	SessionRate       int    `json:"sessionRate"`
	InsuranceProvider string `json:"insuranceProvider,omitempty"`

	// PreferredFrequencyDays is the cadence between sessions the client
	// wants; it drives follow-up urgency.
	PreferredFrequencyDays int      `json:"preferredFrequencyDays"`
	PreferredHour          int      `json:"preferredHour"`
	PreferredModality      Modality `json:"preferredModality"`

	// Availability maps weekday (0-6, day 1 is weekday 0) to the hours
	// the client can attend. A nil map means always available.
	Availability map[int][]int `json:"availability,omitempty"`

	RequiredCertification therapist.Certification `json:"requiredCertification,omitempty"`
	IsMinor               bool                    `json:"isMinor"`
	IsCouple              bool                    `json:"isCouple"`

	ArrivalDay  int `json:"arrivalDay"`
	DaysWaiting int `json:"daysWaiting"`
	MaxWaitDays int `json:"maxWaitDays"`

	AssignedTherapistID string `json:"assignedTherapistId,omitempty"`

	// LastSessionDay is the day the client last completed a session;
	// zero means no session yet.
	LastSessionDay int `json:"lastSessionDay"`
}

// Weekday maps a simulation day to a 0-6 weekday index.
func Weekday(day int) int {
	return (day - 1) % 7
}

// AvailableAt reports whether the client can attend a given day and hour.
func (c *Client) AvailableAt(day, hour int) bool {
	if c.Availability == nil {
		return true
	}
	hours, ok := c.Availability[Weekday(day)]
	if !ok {
		return false
	}
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}

// RequiredCert returns the certification a therapist must hold to treat
// this client. Minors implicitly require the children certification and
// couples the couples certification, even when no explicit requirement is
// recorded.
func (c *Client) RequiredCert() (therapist.Certification, bool) {
	if c.RequiredCertification != "" {
		return c.RequiredCertification, true
	}
	if c.IsMinor {
		return therapist.CertChildren, true
	}
	if c.IsCouple {
		return therapist.CertCouples, true
	}
	return "", false
}

// Active reports whether the client is still part of the practice.
func (c *Client) Active() bool {
	return c.Status == StatusWaiting || c.Status == StatusInTreatment
}

// RemainingSessions is how many sessions the treatment plan still calls for.
func (c *Client) RemainingSessions() int {
	n := c.SessionsRequired - c.SessionsCompleted
	if n < 0 {
		return 0
	}
	return n
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
