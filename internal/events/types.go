// Package events defines the versioned domain events the engine emits and
// the sinks that consume them. Payloads are append-only: a breaking change
// gets a new V2 type, never an edit to V1.
package events

// Event is a versioned domain event payload.
type Event interface {
	EventType() string
}

// SessionScheduledV1 is emitted when a booking commits.
type SessionScheduledV1 struct {
	SessionID       string `json:"session_id"`
	ClientID        string `json:"client_id"`
	TherapistID     string `json:"therapist_id"`
	Day             int    `json:"day"`
	Hour            int    `json:"hour"`
	DurationMinutes int    `json:"duration_minutes"`
	IsVirtual       bool   `json:"is_virtual"`
	Recurring       bool   `json:"recurring"`
	Payment         int    `json:"payment"`
}

func (SessionScheduledV1) EventType() string { return "session.scheduled.v1" }

// SessionStartedV1 is emitted when the clock reaches a scheduled session.
type SessionStartedV1 struct {
	SessionID   string  `json:"session_id"`
	ClientID    string  `json:"client_id"`
	TherapistID string  `json:"therapist_id"`
	Day         int     `json:"day"`
	Hour        int     `json:"hour"`
	BaseQuality float64 `json:"base_quality"`
}

func (SessionStartedV1) EventType() string { return "session.started.v1" }

// SessionCompletedV1 carries the full outcome of a finished session.
type SessionCompletedV1 struct {
	SessionID      string  `json:"session_id"`
	ClientID       string  `json:"client_id"`
	TherapistID    string  `json:"therapist_id"`
	Day            int     `json:"day"`
	Quality        float64 `json:"quality"`
	Payment        int     `json:"payment"`
	XPAwarded      int     `json:"xp_awarded"`
	LeveledUp      bool    `json:"leveled_up"`
	ProgressGained float64 `json:"progress_gained"`
	ProgressType   string  `json:"progress_type"`
}

func (SessionCompletedV1) EventType() string { return "session.completed.v1" }

// SessionCancelledV1 is emitted for both player and simulation cancellations.
type SessionCancelledV1 struct {
	SessionID   string `json:"session_id"`
	ClientID    string `json:"client_id"`
	TherapistID string `json:"therapist_id"`
	Day         int    `json:"day"`
	Reason      string `json:"reason"`
	WasStarted  bool   `json:"was_started"`
}

func (SessionCancelledV1) EventType() string { return "session.cancelled.v1" }

// DecisionTriggeredV1 is emitted when a mid-session decision event fires
// and waits on player input.
type DecisionTriggeredV1 struct {
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	EventID   string `json:"decision_event_id"`
	Day       int    `json:"day"`
}

func (DecisionTriggeredV1) EventType() string { return "session.decision.triggered.v1" }

// ClientDroppedV1 is emitted when a client leaves the waiting list or
// abandons treatment.
type ClientDroppedV1 struct {
	ClientID     string  `json:"client_id"`
	Day          int     `json:"day"`
	DaysWaiting  int     `json:"days_waiting"`
	Satisfaction float64 `json:"satisfaction"`
	Reason       string  `json:"reason"`
}

func (ClientDroppedV1) EventType() string { return "client.dropped.v1" }

// TherapistLeveledUpV1 is emitted when accumulated XP crosses a level
// threshold.
type TherapistLeveledUpV1 struct {
	TherapistID string `json:"therapist_id"`
	NewLevel    int    `json:"new_level"`
	TotalXP     int    `json:"total_xp"`
}

func (TherapistLeveledUpV1) EventType() string { return "therapist.leveled_up.v1" }

// ClaimPaidV1 is emitted when an insurance claim pays out.
type ClaimPaidV1 struct {
	ClaimID   string `json:"claim_id"`
	SessionID string `json:"session_id"`
	InsurerID string `json:"insurer_id"`
	Amount    int    `json:"amount"`
	Day       int    `json:"day"`
	OnAppeal  bool   `json:"on_appeal"`
}

func (ClaimPaidV1) EventType() string { return "insurance.claim.paid.v1" }

// ClaimDeniedV1 is emitted when a claim is denied, with the reason so the
// player can judge whether an appeal is worth it.
type ClaimDeniedV1 struct {
	ClaimID           string  `json:"claim_id"`
	SessionID         string  `json:"session_id"`
	InsurerID         string  `json:"insurer_id"`
	Amount            int     `json:"amount"`
	Day               int     `json:"day"`
	ReasonID          string  `json:"reason_id"`
	AppealSuccessRate float64 `json:"appeal_success_rate"`
	AppealDeadlineDay int     `json:"appeal_deadline_day"`
}

func (ClaimDeniedV1) EventType() string { return "insurance.claim.denied.v1" }

// AppealResolvedV1 is emitted when an appealed claim reaches a verdict.
type AppealResolvedV1 struct {
	ClaimID  string `json:"claim_id"`
	Amount   int    `json:"amount"`
	Day      int    `json:"day"`
	Approved bool   `json:"approved"`
}

func (AppealResolvedV1) EventType() string { return "insurance.appeal.resolved.v1" }
