package therapist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
)

func TestSessionXP(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		quality  float64
		want     int
	}{
		{"standard session quality 0.8", 50, 0.8, 27},
		{"standard session quality 0.6", 50, 0.6, 16},
		{"extended session quality 0.5", 80, 0.5, 24},
		{"intensive session quality 0.9", 180, 0.9, 103},
		{"zero quality", 50, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionXP(tt.duration, tt.quality))
		})
	}
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(9))
	assert.Equal(t, 2, LevelForXP(18))
	assert.Equal(t, 2, LevelForXP(39))
	assert.Equal(t, 3, LevelForXP(40))
	assert.Equal(t, 1, LevelForXP(-5))
}

func TestGainXP(t *testing.T) {
	th := &Therapist{Level: 1}

	assert.False(t, th.GainXP(9), "9 XP stays level 1")
	assert.True(t, th.GainXP(9), "18 XP reaches level 2")
	assert.Equal(t, 2, th.Level)
	assert.False(t, th.GainXP(0))
}

func TestEnergyClamping(t *testing.T) {
	th := &Therapist{Energy: 20, MaxEnergy: 100}

	th.SpendEnergy(50)
	assert.Equal(t, float64(0), th.Energy)

	th.RecoverEnergy(150)
	assert.Equal(t, float64(100), th.Energy)
}

func TestWorkWindow(t *testing.T) {
	practice := gametime.WorkHours{Start: 8, End: 17, LunchHour: gametime.NoLunch}

	th := &Therapist{}
	assert.Equal(t, practice, th.WorkWindow(practice))

	custom := gametime.WorkHours{Start: 10, End: 19, LunchHour: 13}
	th.WorkHours = &custom
	assert.Equal(t, custom, th.WorkWindow(practice))
}

func TestCertificationLookup(t *testing.T) {
	th := &Therapist{Certifications: []Certification{CertChildren, CertTrauma}}

	assert.True(t, th.HasCertification(CertChildren))
	assert.False(t, th.HasCertification(CertCouples))
}
