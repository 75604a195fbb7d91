package clients

import "github.com/tycoonlabs/therapy-tycoon/internal/therapist"

// MatchBreakdown explains how a client/therapist match score was built.
type MatchBreakdown struct {
	CertificationOK     bool    `json:"certificationOk"`
	SpecializationMatch bool    `json:"specializationMatch"`
	TraitScore          float64 `json:"traitScore"`
	ModalityFlexible    bool    `json:"modalityFlexible"`
	Score               float64 `json:"score"`
}

// MatchScore rates how well a therapist fits a client on a 0-100 scale.
// The certification gate is a hard veto: a therapist missing a required
// certification scores zero regardless of everything else. Beyond the
// gate, the score combines a base fit, specialization overlap, and trait
// quality with warmth weighted most heavily.
func MatchScore(c *Client, t *therapist.Therapist) MatchBreakdown {
	b := MatchBreakdown{CertificationOK: true}

	if cert, required := c.RequiredCert(); required && !t.HasCertification(cert) {
		b.CertificationOK = false
		return b
	}

	score := 40.0

	if t.HasSpecialization(c.ConditionCategory) {
		b.SpecializationMatch = true
		score += 25
	}

	// Warmth carries half the trait weight; analytical and creativity
	// split the rest.
	traits := t.Traits
	b.TraitScore = (float64(traits.Warmth)*12.5 + float64(traits.Analytical)*7.5 + float64(traits.Creativity)*5.0) / 10.0
	score += b.TraitScore

	if c.PreferredModality == ModalityNoPreference {
		b.ModalityFlexible = true
		score += 10
	}

	if score > 100 {
		score = 100
	}
	b.Score = score
	return b
}

// ModalityBonus rates how well a proposed session format suits the client,
// in match-quality units: positive for a preference hit, negative for a
// mismatch against a stated preference.
func ModalityBonus(c *Client, isVirtual bool) float64 {
	switch c.PreferredModality {
	case ModalityVirtual:
		if isVirtual {
			return 0.15
		}
		return -0.05
	case ModalityInPerson:
		if isVirtual {
			return -0.05
		}
		return 0.1
	default:
		return 0.05
	}
}

// FindBestMatch returns the highest-scoring therapist for a client, or nil
// when none passes the certification gate. Burned-out therapists are never
// considered.
func FindBestMatch(c *Client, pool []*therapist.Therapist) *therapist.Therapist {
	var best *therapist.Therapist
	bestScore := -1.0
	for _, t := range pool {
		if t.Status == therapist.StatusBurnedOut {
			continue
		}
		b := MatchScore(c, t)
		if !b.CertificationOK {
			continue
		}
		if b.Score > bestScore {
			best = t
			bestScore = b.Score
		}
	}
	return best
}
