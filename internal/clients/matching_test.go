package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

func TestMatchScoreCertificationVeto(t *testing.T) {
	minor := &Client{IsMinor: true, ConditionCategory: "anxiety"}

	uncertified := &therapist.Therapist{
		ID:              "t1",
		Specializations: []string{"anxiety"},
		Traits:          therapist.Traits{Warmth: 10, Analytical: 10, Creativity: 10},
	}
	b := MatchScore(minor, uncertified)
	assert.False(t, b.CertificationOK)
	assert.Equal(t, float64(0), b.Score, "missing children certification is a hard veto")

	certified := &therapist.Therapist{
		ID:             "t2",
		Certifications: []therapist.Certification{therapist.CertChildren},
	}
	b = MatchScore(minor, certified)
	assert.True(t, b.CertificationOK)
	assert.Greater(t, b.Score, float64(0))
}

func TestMatchScoreComponents(t *testing.T) {
	c := &Client{ConditionCategory: "trauma", PreferredModality: ModalityInPerson}

	specialist := &therapist.Therapist{
		Specializations: []string{"trauma"},
		Traits:          therapist.Traits{Warmth: 8, Analytical: 6, Creativity: 4},
	}
	generalist := &therapist.Therapist{
		Traits: therapist.Traits{Warmth: 8, Analytical: 6, Creativity: 4},
	}

	bs := MatchScore(c, specialist)
	bg := MatchScore(c, generalist)
	assert.True(t, bs.SpecializationMatch)
	assert.False(t, bg.SpecializationMatch)
	assert.Equal(t, float64(25), bs.Score-bg.Score)

	warm := &therapist.Therapist{Traits: therapist.Traits{Warmth: 10}}
	analytical := &therapist.Therapist{Traits: therapist.Traits{Analytical: 10}}
	assert.Greater(t, MatchScore(c, warm).Score, MatchScore(c, analytical).Score,
		"warmth weighs more than analytical")
}

func TestModalityBonus(t *testing.T) {
	virtualFan := &Client{PreferredModality: ModalityVirtual}
	assert.Equal(t, 0.15, ModalityBonus(virtualFan, true))
	assert.Equal(t, -0.05, ModalityBonus(virtualFan, false))

	inPerson := &Client{PreferredModality: ModalityInPerson}
	assert.Equal(t, -0.05, ModalityBonus(inPerson, true))
	assert.Equal(t, 0.1, ModalityBonus(inPerson, false))

	flexible := &Client{PreferredModality: ModalityNoPreference}
	assert.Equal(t, 0.05, ModalityBonus(flexible, true))
}

func TestFindBestMatch(t *testing.T) {
	c := &Client{ConditionCategory: "depression"}

	burnedOut := &therapist.Therapist{
		ID:              "burned",
		Status:          therapist.StatusBurnedOut,
		Specializations: []string{"depression"},
		Traits:          therapist.Traits{Warmth: 10, Analytical: 10, Creativity: 10},
	}
	specialist := &therapist.Therapist{
		ID:              "specialist",
		Status:          therapist.StatusAvailable,
		Specializations: []string{"depression"},
		Traits:          therapist.Traits{Warmth: 5},
	}
	generalist := &therapist.Therapist{
		ID:     "gen",
		Status: therapist.StatusAvailable,
		Traits: therapist.Traits{Warmth: 5},
	}

	best := FindBestMatch(c, []*therapist.Therapist{burnedOut, generalist, specialist})
	require.NotNil(t, best)
	assert.Equal(t, "specialist", best.ID, "burned-out therapists are excluded even with the best score")
}

func TestFindBestMatchNoCertifiedTherapist(t *testing.T) {
	minor := &Client{IsMinor: true}
	pool := []*therapist.Therapist{
		{ID: "t1", Status: therapist.StatusAvailable},
		{ID: "t2", Status: therapist.StatusAvailable},
	}
	assert.Nil(t, FindBestMatch(minor, pool))
}

func TestAvailableAt(t *testing.T) {
	c := &Client{Availability: map[int][]int{
		0: {9, 10},
		2: {14},
	}}

	assert.True(t, c.AvailableAt(1, 9), "day 1 is weekday 0")
	assert.False(t, c.AvailableAt(1, 11))
	assert.True(t, c.AvailableAt(3, 14), "day 3 is weekday 2")
	assert.False(t, c.AvailableAt(2, 9), "no availability listed for weekday 1")
	assert.True(t, c.AvailableAt(8, 10), "weekday wraps after 7 days")

	anyTime := &Client{}
	assert.True(t, anyTime.AvailableAt(5, 16))
}
