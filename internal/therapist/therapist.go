// Package therapist holds the therapist model: energy, skill, XP
// progression, certifications, and per-therapist work hours.
package therapist

import (
	"math"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
)

// Status is a therapist's current availability state.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusInSession  Status = "in_session"
	StatusOnBreak    Status = "on_break"
	StatusInTraining Status = "in_training"
	StatusBurnedOut  Status = "burned_out"
)

// Certification gates which clients a therapist may treat.
type Certification string

const (
	CertChildren  Certification = "children_certified"
	CertCouples   Certification = "couples_certified"
	CertTrauma    Certification = "trauma_certified"
	CertSubstance Certification = "substance_abuse_certified"
)

// Traits are the personality dimensions used for client matching,
// each on a 0-10 scale.
type Traits struct {
	Warmth     int `json:"warmth"`
	Analytical int `json:"analytical"`
	Creativity int `json:"creativity"`
}

// Therapist is a practice staff member.
type Therapist struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsPlayer    bool   `json:"isPlayer"`

	Energy    float64 `json:"energy"`
	MaxEnergy float64 `json:"maxEnergy"`

	BaseSkill int `json:"baseSkill"`
	Level     int `json:"level"`
	XP        int `json:"xp"`

	Certifications  []Certification `json:"certifications"`
	Specializations []string        `json:"specializations"`

	Status Status `json:"status"`
	Traits Traits `json:"traits"`

	// WorkHours overrides the practice-wide business hours when set.
	WorkHours *gametime.WorkHours `json:"workHours,omitempty"`
}

// HasCertification reports whether the therapist holds a certification.
func (t *Therapist) HasCertification(c Certification) bool {
	for _, have := range t.Certifications {
		if have == c {
			return true
		}
	}
	return false
}

// HasSpecialization reports whether the therapist specializes in a
// condition category.
func (t *Therapist) HasSpecialization(category string) bool {
	for _, s := range t.Specializations {
		if s == category {
			return true
		}
	}
	return false
}

// WorkWindow returns the therapist's bookable window, falling back to the
// practice default when no custom hours are set.
func (t *Therapist) WorkWindow(practice gametime.WorkHours) gametime.WorkHours {
	if t.WorkHours != nil {
		return *t.WorkHours
	}
	return practice
}

// SpendEnergy drains energy, clamped at zero.
func (t *Therapist) SpendEnergy(amount float64) {
	t.Energy -= amount
	if t.Energy < 0 {
		t.Energy = 0
	}
}

// RecoverEnergy restores energy, clamped at MaxEnergy.
func (t *Therapist) RecoverEnergy(amount float64) {
	t.Energy += amount
	if t.Energy > t.MaxEnergy {
		t.Energy = t.MaxEnergy
	}
}

// SessionXP is the XP awarded for completing a session. High-quality
// sessions (quality >= 0.75) earn a 1.5x bonus.
func SessionXP(durationMinutes int, quality float64) int {
	mult := 1.0
	if quality >= 0.75 {
		mult = 1.5
	}
	xp := 10 * (float64(durationMinutes) / 50.0) * mult * (1 + quality)
	return int(math.Round(xp))
}

// LevelForXP derives a therapist's level from accumulated XP.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/10))) + 1
}

// GainXP adds XP, recomputes the level, and reports whether the therapist
// levelled up.
func (t *Therapist) GainXP(amount int) bool {
	if amount <= 0 {
		return false
	}
	t.XP += amount
	newLevel := LevelForXP(t.XP)
	if newLevel > t.Level {
		t.Level = newLevel
		return true
	}
	return false
}
