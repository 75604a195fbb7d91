package session

import (
	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// ShouldStart reports whether a scheduled session's start criteria are met:
// the clock sits exactly at minute zero of its scheduled hour.
func ShouldStart(s *Session, now gametime.Time) bool {
	return s.Status == StatusScheduled &&
		s.ScheduledDay == now.Day &&
		s.ScheduledHour == now.Hour &&
		now.Minute == 0
}

// Start transitions a session to in_progress and computes its initial
// quality: a fixed baseline plus additive modifiers from therapist skill,
// energy, client engagement, specialization and certification fit, session
// format, and case severity. The cumulative quality is clamped to [0, 1]
// after every modifier.
func Start(s *Session, th *therapist.Therapist, cl *clients.Client, r rules.Rules) {
	s.Status = StatusInProgress
	s.Progress = 0
	s.Quality = 0
	s.QualityModifiers = nil

	s.AddQualityModifier("baseline", r.BaseQuality, "session baseline")
	s.AddQualityModifier("skill", float64(th.BaseSkill)/100*0.3, "therapist skill")
	if th.MaxEnergy > 0 {
		s.AddQualityModifier("energy", (th.Energy/th.MaxEnergy-0.5)*0.2, "therapist energy")
	}
	s.AddQualityModifier("engagement", cl.Engagement/100*0.15, "client engagement")
	if th.HasSpecialization(cl.ConditionCategory) {
		s.AddQualityModifier("specialization", 0.1, "condition specialization")
	}
	if cert, required := cl.RequiredCert(); required && th.HasCertification(cert) {
		s.AddQualityModifier("certification", 0.05, "matching certification")
	}
	if s.IsVirtual && cl.PreferredModality == clients.ModalityInPerson {
		s.AddQualityModifier("modality", -0.05, "virtual session against in-person preference")
	}
	if cl.Severity >= 7 {
		s.AddQualityModifier("severity", -0.05*float64(cl.Severity-6)/4, "high-severity case")
	}

	th.Status = therapist.StatusInSession
	if cl.Status == clients.StatusWaiting {
		cl.Status = clients.StatusInTreatment
	}
}

// Tick advances an in-progress session by elapsed minutes, moving its
// fractional completion toward 1.
func Tick(s *Session, deltaMinutes int) {
	if s.Status != StatusInProgress || deltaMinutes <= 0 {
		return
	}
	s.Progress += float64(deltaMinutes) / float64(s.DurationMinutes)
	if s.Progress > 1 {
		s.Progress = 1
	}
}

// IsSessionComplete reports whether an in-progress session has run its full
// duration. Sessions already completed are not completable again.
func IsSessionComplete(s *Session) bool {
	return s.Status == StatusInProgress && s.Progress >= 1
}

// CompletionResult summarizes what a finished session produced.
type CompletionResult struct {
	Quality        float64      `json:"quality"`
	Payment        int          `json:"payment"`
	XPAwarded      int          `json:"xpAwarded"`
	LeveledUp      bool         `json:"leveledUp"`
	NewLevel       int          `json:"newLevel"`
	ProgressGained float64      `json:"progressGained"`
	ProgressType   ProgressType `json:"progressType"`
}

// Complete finalizes an in-progress session: awards XP, applies the
// session outcome and the non-linear treatment-progress model to the
// client, drains therapist energy, and releases the therapist. The seed
// drives the treatment-progress draw, so identical inputs give identical
// outcomes.
func Complete(s *Session, th *therapist.Therapist, cl *clients.Client, r rules.Rules, seed int64) CompletionResult {
	s.Status = StatusCompleted
	s.Progress = 1

	result := CompletionResult{
		Quality: s.Quality,
		Payment: s.Payment,
	}

	result.XPAwarded = therapist.SessionXP(s.DurationMinutes, s.Quality)
	result.LeveledUp = th.GainXP(result.XPAwarded)
	result.NewLevel = th.Level

	outcome := TreatmentProgress(r.Progress, s.Quality, cl.Satisfaction, s.HadCrisisDecision(), seed)
	result.ProgressGained = outcome.Gained
	result.ProgressType = outcome.Type

	clients.ProcessSessionOutcome(cl, s.Quality)
	clients.AddTreatmentProgress(cl, outcome.Gained)
	cl.LastSessionDay = s.ScheduledDay

	th.SpendEnergy(float64(s.EnergyCost))
	// A therapist manually moved to a break or training keeps that status.
	if th.Status == therapist.StatusInSession {
		th.Status = therapist.StatusAvailable
	}

	return result
}

// Cancel aborts a session from any non-terminal state. The reason is kept
// on the session as a zero-value quality modifier; the client takes a flat
// satisfaction penalty.
func Cancel(s *Session, th *therapist.Therapist, cl *clients.Client, reason string, r rules.Rules) bool {
	if s.Status == StatusCompleted || s.Status == StatusCancelled {
		return false
	}
	s.Status = StatusCancelled
	s.AddQualityModifier("cancelled", 0, reason)

	if th != nil && th.Status == therapist.StatusInSession {
		th.Status = therapist.StatusAvailable
	}
	if cl != nil {
		cl.Satisfaction -= r.CancelSatisfactionPenalty
		if cl.Satisfaction < 0 {
			cl.Satisfaction = 0
		}
	}
	return true
}
