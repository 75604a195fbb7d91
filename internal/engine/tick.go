package engine

import (
	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/events"
	"github.com/tycoonlabs/therapy-tycoon/internal/schedule"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

const minutesPerDay = 24 * 60

// AdvanceMinutes moves the clock forward one minute at a time, running
// session progress every minute, hourly processing on each hour boundary,
// and daily processing at midnight.
func (e *Engine) AdvanceMinutes(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < n; i++ {
		e.stepMinute()
	}
	e.metrics.SetBalance(e.state.Balance)
}

// AdvanceHour advances the clock by one hour.
func (e *Engine) AdvanceHour() {
	e.AdvanceMinutes(60)
	e.metricsTick("hour")
}

// AdvanceDay advances the clock by one full day.
func (e *Engine) AdvanceDay() {
	e.AdvanceMinutes(minutesPerDay)
	e.metricsTick("day")
}

// SkipDays fast-forwards whole days. The simulation still runs minute by
// minute underneath, so scheduled sessions, attrition, and claims all
// resolve exactly as they would have in real play.
func (e *Engine) SkipDays(days int) {
	for i := 0; i < days; i++ {
		e.AdvanceDay()
	}
}

func (e *Engine) metricsTick(unit string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics.ObserveTick(unit)
}

func (e *Engine) stepMinute() {
	e.state.Clock = e.state.Clock.Advance(1)
	now := e.state.Clock

	e.tickSessions()

	if now.Minute == 0 {
		e.startDueSessions()
		e.recoverIdleEnergy()
		if now.Hour == 0 {
			e.processDay()
		}
	}
}

// startDueSessions transitions every scheduled session whose slot has just
// arrived.
func (e *Engine) startDueSessions() {
	for _, s := range e.state.sessionsSorted() {
		if !session.ShouldStart(s, e.state.Clock) {
			continue
		}
		th := e.state.Therapists[s.TherapistID]
		cl := e.state.Clients[s.ClientID]
		if th == nil || cl == nil {
			continue
		}
		// A burned-out or otherwise occupied therapist forfeits the slot.
		if th.Status != therapist.StatusAvailable {
			e.cancelLocked(s, th, cl, "therapist unavailable")
			continue
		}
		session.Start(s, th, cl, e.rules)
		e.emit(events.SessionStartedV1{
			SessionID:   s.ID,
			ClientID:    cl.ID,
			TherapistID: th.ID,
			Day:         s.ScheduledDay,
			Hour:        s.ScheduledHour,
			BaseQuality: s.Quality,
		})
		e.logger.Info("session started", "session_id", s.ID, "quality", s.Quality)
	}
}

// tickSessions advances in-progress sessions by one minute, gives decision
// events a chance to fire, and completes sessions that have run their
// course.
func (e *Engine) tickSessions() {
	for _, s := range e.state.sessionsSorted() {
		if s.Status != session.StatusInProgress {
			continue
		}
		session.Tick(s, 1)

		cl := e.state.Clients[s.ClientID]
		if cl != nil && s.PendingDecisionID == "" {
			if evt := session.MaybeTriggerDecision(s, cl, e.deck, e.rules.DecisionMinProgress, e.rules.DecisionChancePerProgress, e.rng); evt != nil {
				e.emit(events.DecisionTriggeredV1{
					SessionID: s.ID,
					ClientID:  cl.ID,
					EventID:   evt.ID,
					Day:       e.state.Clock.Day,
				})
				e.logger.Info("decision triggered", "session_id", s.ID, "event_id", evt.ID)
			}
		}

		// A session with an unanswered decision waits at full progress
		// until the player chooses.
		if s.PendingDecisionID != "" {
			continue
		}
		if session.IsSessionComplete(s) {
			e.completeSession(s)
		}
	}
}

func (e *Engine) completeSession(s *session.Session) {
	th := e.state.Therapists[s.TherapistID]
	cl := e.state.Clients[s.ClientID]
	if th == nil || cl == nil {
		return
	}

	result := session.Complete(s, th, cl, e.rules, e.rng.Int63())

	if s.IsInsurance {
		if panel, ok := e.state.Panels[cl.InsuranceProvider]; ok {
			mult := e.rules.PaymentMultiplierFor(s.DurationMinutes)
			claim := e.pipeline.CreateClaim(panel, s.ID, mult, e.state.Clock.Day)
			e.state.Claims[claim.ID] = claim
		} else {
			// No panel on file: bill the client directly.
			e.state.Balance += result.Payment
		}
	} else {
		e.state.Balance += result.Payment
	}

	e.metrics.ObserveCompletion(string(result.ProgressType), result.Quality)
	e.emit(events.SessionCompletedV1{
		SessionID:      s.ID,
		ClientID:       cl.ID,
		TherapistID:    th.ID,
		Day:            e.state.Clock.Day,
		Quality:        result.Quality,
		Payment:        result.Payment,
		XPAwarded:      result.XPAwarded,
		LeveledUp:      result.LeveledUp,
		ProgressGained: result.ProgressGained,
		ProgressType:   string(result.ProgressType),
	})
	if result.LeveledUp {
		e.emit(events.TherapistLeveledUpV1{
			TherapistID: th.ID,
			NewLevel:    th.Level,
			TotalXP:     th.XP,
		})
	}
	e.logger.Info("session completed",
		"session_id", s.ID,
		"quality", result.Quality,
		"progress_type", result.ProgressType,
	)
}

// recoverIdleEnergy restores energy to therapists sitting out the hour
// during business hours.
func (e *Engine) recoverIdleEnergy() {
	if !e.rules.BusinessHours.Covers(e.state.Clock.Hour) {
		return
	}
	for _, th := range e.state.therapistsSorted() {
		if th.Status == therapist.StatusAvailable {
			th.RecoverEnergy(float64(e.rules.IdleEnergyRecoveryPerHour))
		}
	}
}

// processDay runs the midnight pass: waiting-list attrition, then due
// claims, then appeal resolutions.
func (e *Engine) processDay() {
	day := e.state.Clock.Day

	attrition := clients.ProcessWaitingList(e.state.clientsSorted(), day, e.rules.Waiting)
	for _, c := range attrition.Dropped {
		e.dropClientSessions(c)
		e.metrics.ObserveClientDropped()
		e.emit(events.ClientDroppedV1{
			ClientID:     c.ID,
			Day:          day,
			DaysWaiting:  c.DaysWaiting,
			Satisfaction: c.Satisfaction,
			Reason:       "waiting list attrition",
		})
		e.logger.Info("client dropped", "client_id", c.ID, "days_waiting", c.DaysWaiting)
	}

	claims := e.pipeline.ProcessDueClaims(e.state.claimsSorted(), day, e.state.Panels)
	for _, c := range claims.Paid {
		e.state.Balance += c.Amount
		e.metrics.ObserveClaim("paid")
		e.emit(events.ClaimPaidV1{
			ClaimID:   c.ID,
			SessionID: c.SessionID,
			InsurerID: c.InsurerID,
			Amount:    c.Amount,
			Day:       day,
		})
	}
	for _, c := range claims.Denied {
		e.metrics.ObserveClaim("denied")
		e.emit(events.ClaimDeniedV1{
			ClaimID:           c.ID,
			SessionID:         c.SessionID,
			InsurerID:         c.InsurerID,
			Amount:            c.Amount,
			Day:               day,
			ReasonID:          c.DenialReason.ID,
			AppealSuccessRate: c.DenialReason.AppealSuccessRate,
			AppealDeadlineDay: c.AppealDeadlineDay,
		})
	}

	appeals := e.pipeline.ProcessAppeals(e.state.claimsSorted(), day)
	for _, c := range appeals.Approved {
		e.state.Balance += c.Amount
		e.metrics.ObserveClaim("appeal_approved")
		e.emit(events.ClaimPaidV1{
			ClaimID:   c.ID,
			SessionID: c.SessionID,
			InsurerID: c.InsurerID,
			Amount:    c.Amount,
			Day:       day,
			OnAppeal:  true,
		})
		e.emit(events.AppealResolvedV1{ClaimID: c.ID, Amount: c.Amount, Day: day, Approved: true})
	}
	for _, c := range appeals.Rejected {
		e.metrics.ObserveClaim("appeal_rejected")
		e.emit(events.AppealResolvedV1{ClaimID: c.ID, Amount: c.Amount, Day: day, Approved: false})
	}
}

// dropClientSessions cancels every future session of a departing client.
func (e *Engine) dropClientSessions(c *clients.Client) {
	for _, s := range e.state.sessionsSorted() {
		if s.ClientID != c.ID || !s.Active() {
			continue
		}
		th := e.state.Therapists[s.TherapistID]
		e.cancelLocked(s, th, c, "client left the practice")
	}
}

// cancelLocked cancels a session while the engine lock is held.
func (e *Engine) cancelLocked(s *session.Session, th *therapist.Therapist, cl *clients.Client, reason string) {
	wasStarted := s.Status == session.StatusInProgress
	if !session.Cancel(s, th, cl, reason, e.rules) {
		return
	}
	e.state.Grid = schedule.Remove(e.state.Grid, s)
	e.metrics.ObserveCancellation(reason)
	e.emit(events.SessionCancelledV1{
		SessionID:   s.ID,
		ClientID:    s.ClientID,
		TherapistID: s.TherapistID,
		Day:         e.state.Clock.Day,
		Reason:      reason,
		WasStarted:  wasStarted,
	})
}
