// Package suggest ranks (client, therapist, slot) candidates so the player
// always has a sensible next booking on hand. Suggestions are ephemeral:
// recomputed on every query, never persisted.
package suggest

import (
	"sort"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/schedule"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// Urgency classifies how soon a client's next session is due.
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyDueSoon Urgency = "due_soon"
	UrgencyNormal  Urgency = "normal"
)

// QualityTier grades the overall fit of a suggestion.
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierFair      QualityTier = "fair"
)

// Scoring weights for the final ranking.
const (
	weightOverdue   = 1000
	weightDueSoon   = 500
	weightNormal    = 100
	weightExcellent = 150
	weightGood      = 100
	weightFair      = 50

	modalityScale      = 33
	continuityBonus    = 40
	preferredSlotBonus = 30
	matchScoreScale    = 0.5
	goodEnergyBonus    = 20
	perDayPenalty      = 3

	goodEnergyFloor = 30
	lookaheadDays   = 7
)

// Suggestion is one ranked booking recommendation.
type Suggestion struct {
	ClientID    string `json:"clientId"`
	TherapistID string `json:"therapistId"`
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	IsVirtual   bool   `json:"isVirtual"`

	Urgency Urgency     `json:"urgency"`
	Tier    QualityTier `json:"tier"`

	MatchScore          float64 `json:"matchScore"`
	ModalityBonus       float64 `json:"modalityBonus"`
	Continuing          bool    `json:"continuing"`
	SpecializationMatch bool    `json:"specializationMatch"`
	GoodEnergy          bool    `json:"goodEnergy"`
	PreferredSlot       bool    `json:"preferredSlot"`

	Score float64 `json:"score"`
}

// Engine computes booking suggestions over a read-only view of the state.
type Engine struct {
	Rules              rules.Rules
	Building           schedule.Building
	TelehealthUnlocked bool
}

// Input is the state snapshot a suggestion query runs against.
type Input struct {
	Grid           schedule.Grid
	Sessions       []*session.Session
	Clients        []*clients.Client
	Therapists     []*therapist.Therapist
	Now            gametime.Time
	MaxSuggestions int
}

// Suggest returns up to MaxSuggestions ranked bookings. Clients already in
// treatment with sessions remaining come first (most urgent leading), then
// never-scheduled waiting clients. Normal-urgency suggestions stop filling
// once they hold half the budget, so urgent work is never crowded out.
func (e Engine) Suggest(in Input) []Suggestion {
	if in.MaxSuggestions <= 0 {
		in.MaxSuggestions = 5
	}

	pool := e.buildPool(in)

	var out []Suggestion
	normalCount := 0
	normalCap := in.MaxSuggestions / 2
	if normalCap < 1 {
		normalCap = 1
	}

	for _, pc := range pool {
		if len(out) >= in.MaxSuggestions {
			break
		}
		if pc.urgency == UrgencyNormal && normalCount >= normalCap {
			continue
		}
		s, ok := e.suggestFor(in, pc.client, pc.urgency)
		if !ok {
			continue
		}
		out = append(out, s)
		if s.Urgency == UrgencyNormal {
			normalCount++
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > in.MaxSuggestions {
		out = out[:in.MaxSuggestions]
	}
	return out
}

type poolCandidate struct {
	client  *clients.Client
	urgency Urgency
}

// buildPool gathers clients needing a next session: active clients with no
// upcoming session and sessions left, sorted by follow-up urgency, then
// waiting clients who have never been scheduled.
func (e Engine) buildPool(in Input) []poolCandidate {
	var active, waiting []poolCandidate
	for _, c := range in.Clients {
		switch c.Status {
		case clients.StatusInTreatment:
			if c.RemainingSessions() == 0 || hasUpcomingSession(in.Sessions, c.ID) {
				continue
			}
			active = append(active, poolCandidate{client: c, urgency: e.followUpUrgency(c, in.Now)})
		case clients.StatusWaiting:
			if hasUpcomingSession(in.Sessions, c.ID) {
				continue
			}
			waiting = append(waiting, poolCandidate{client: c, urgency: e.waitingUrgency(c)})
		}
	}

	rank := map[Urgency]int{UrgencyOverdue: 0, UrgencyDueSoon: 1, UrgencyNormal: 2}
	sort.SliceStable(active, func(i, j int) bool {
		return rank[active[i].urgency] < rank[active[j].urgency]
	})
	sort.SliceStable(waiting, func(i, j int) bool {
		return rank[waiting[i].urgency] < rank[waiting[j].urgency]
	})
	return append(active, waiting...)
}

// followUpUrgency grades an in-treatment client by their preferred cadence.
func (e Engine) followUpUrgency(c *clients.Client, now gametime.Time) Urgency {
	due := c.LastSessionDay + c.PreferredFrequencyDays
	switch {
	case now.Day > due:
		return UrgencyOverdue
	case due-now.Day <= e.Rules.DueSoonDays:
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

// waitingUrgency grades a waiting client by how much patience they have
// left before dropping off the list.
func (e Engine) waitingUrgency(c *clients.Client) Urgency {
	switch {
	case c.DaysWaiting >= c.MaxWaitDays:
		return UrgencyOverdue
	case c.MaxWaitDays-c.DaysWaiting <= e.Rules.DueSoonDays:
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

// suggestFor picks the therapist and slot for one client. The continuing
// therapist is tried first, then the rest by descending match score; the
// first therapist with any valid slot wins and contributes their most
// preferred slot.
func (e Engine) suggestFor(in Input, c *clients.Client, urgency Urgency) (Suggestion, bool) {
	isVirtual := c.PreferredModality == clients.ModalityVirtual && e.TelehealthUnlocked

	for _, th := range e.rankTherapists(in, c) {
		day, hour, ok := e.firstMatchingSlot(in, th, c, isVirtual)
		if !ok {
			continue
		}

		breakdown := clients.MatchScore(c, th)
		modality := clients.ModalityBonus(c, isVirtual)
		energyCost := e.Rules.EnergyCostFor(50)
		s := Suggestion{
			ClientID:            c.ID,
			TherapistID:         th.ID,
			Day:                 day,
			Hour:                hour,
			IsVirtual:           isVirtual,
			Urgency:             urgency,
			MatchScore:          breakdown.Score,
			ModalityBonus:       modality,
			Continuing:          c.AssignedTherapistID == th.ID,
			SpecializationMatch: breakdown.SpecializationMatch,
			GoodEnergy:          th.Energy-float64(energyCost) >= goodEnergyFloor,
			PreferredSlot:       hour == c.PreferredHour,
		}
		s.Tier = tierFor(s)
		s.Score = scoreFor(s, in.Now)
		return s, true
	}
	return Suggestion{}, false
}

// rankTherapists orders eligible therapists: the client's assigned
// therapist first for continuity, then descending match score. Therapists
// failing the certification gate or burned out are excluded.
func (e Engine) rankTherapists(in Input, c *clients.Client) []*therapist.Therapist {
	var eligible []*therapist.Therapist
	for _, th := range in.Therapists {
		if th.Status == therapist.StatusBurnedOut {
			continue
		}
		if b := clients.MatchScore(c, th); !b.CertificationOK {
			continue
		}
		eligible = append(eligible, th)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		ci := eligible[i].ID == c.AssignedTherapistID
		cj := eligible[j].ID == c.AssignedTherapistID
		if ci != cj {
			return ci
		}
		return clients.MatchScore(c, eligible[i]).Score > clients.MatchScore(c, eligible[j]).Score
	})
	return eligible
}

// firstMatchingSlot scans the lookahead window for the therapist's first
// valid slot, preferring hours closest to the client's preferred hour
// (ties toward the earlier hour).
func (e Engine) firstMatchingSlot(in Input, th *therapist.Therapist, c *clients.Client, isVirtual bool) (int, int, bool) {
	window := th.WorkWindow(e.Rules.BusinessHours)

	for day := in.Now.Day; day < in.Now.Day+lookaheadDays; day++ {
		for _, hour := range hoursByPreference(window, c.PreferredHour) {
			if !c.AvailableAt(day, hour) {
				continue
			}
			if in.Now.SlotInPast(day, hour) {
				continue
			}
			if !schedule.IsSlotAvailable(in.Grid, th.ID, day, hour, 50, window) {
				continue
			}
			if schedule.ClientHasConflictingSession(in.Sessions, c.ID, day, hour, 50) {
				continue
			}
			if in.Grid.SessionCountOn(day, th.ID) >= e.Rules.MaxSessionsPerTherapistPerDay {
				continue
			}
			if d := schedule.CanBookSessionType(schedule.BookingCheck{
				Building:           e.Building,
				Sessions:           in.Sessions,
				TelehealthUnlocked: e.TelehealthUnlocked,
				IsVirtual:          isVirtual,
				Day:                day,
				Hour:               hour,
				DurationMinutes:    50,
			}); !d.CanBook {
				continue
			}
			return day, hour, true
		}
	}
	return 0, 0, false
}

// hoursByPreference lists a window's hours ordered by distance from the
// preferred hour, ties toward the smaller hour.
func hoursByPreference(w gametime.WorkHours, preferred int) []int {
	var hours []int
	for h := w.Start; h < w.End; h++ {
		if w.Covers(h) {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		di, dj := absInt(hours[i]-preferred), absInt(hours[j]-preferred)
		if di != dj {
			return di < dj
		}
		return hours[i] < hours[j]
	})
	return hours
}

// tierFor grades a suggestion. Excellent needs a high score plus at least
// two strong factors; good needs a decent score or one strong factor.
func tierFor(s Suggestion) QualityTier {
	strong := 0
	if s.MatchScore >= 70 {
		strong++
	}
	if s.ModalityBonus >= 0.1 {
		strong++
	}
	if s.Continuing {
		strong++
	}
	if s.SpecializationMatch {
		strong++
	}

	switch {
	case s.MatchScore >= 75 && strong >= 2:
		return TierExcellent
	case s.MatchScore >= 50 || strong >= 1:
		return TierGood
	default:
		return TierFair
	}
}

// scoreFor computes the final composite ranking score.
func scoreFor(s Suggestion, now gametime.Time) float64 {
	score := 0.0
	switch s.Urgency {
	case UrgencyOverdue:
		score += weightOverdue
	case UrgencyDueSoon:
		score += weightDueSoon
	default:
		score += weightNormal
	}
	switch s.Tier {
	case TierExcellent:
		score += weightExcellent
	case TierGood:
		score += weightGood
	default:
		score += weightFair
	}
	score += s.ModalityBonus * modalityScale
	if s.Continuing {
		score += continuityBonus
	}
	if s.PreferredSlot {
		score += preferredSlotBonus
	}
	score += matchScoreScale * s.MatchScore
	if s.GoodEnergy {
		score += goodEnergyBonus
	}
	score -= perDayPenalty * float64(s.Day-now.Day)
	return score
}

func hasUpcomingSession(sessions []*session.Session, clientID string) bool {
	for _, s := range sessions {
		if s.ClientID == clientID && s.Active() {
			return true
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
