// Command simulate runs a headless practice for a number of in-game days,
// booking from the suggestion engine each morning and printing a daily
// ledger. Useful for balancing rule tweaks without a browser attached.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/engine"
	"github.com/tycoonlabs/therapy-tycoon/internal/events"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

func main() {
	days := flag.Int("days", 14, "number of in-game days to simulate")
	seed := flag.Int64("seed", 1, "rng seed; the same seed replays the same run")
	verbose := flag.Bool("v", false, "log every engine event")
	flag.Parse()

	if *days <= 0 {
		fmt.Fprintln(os.Stderr, "days must be positive")
		os.Exit(1)
	}

	logger := logging.New("warn")
	if *verbose {
		logger = logging.New("info")
	}

	recorder := &events.Recorder{}
	bus := events.NewBus(recorder, events.NewLogSink(logger))

	eng := engine.New(engine.Options{
		Rules:   rules.Default(),
		Seed:    *seed,
		Rooms:   2,
		Balance: 2000,
		Logger:  logger,
		Bus:     bus,
	})

	seedPractice(eng)

	for i := 0; i < *days; i++ {
		bookFromSuggestions(eng)
		resolveDecisions(eng)
		eng.AdvanceDay()
		resolveDecisions(eng)
		appealDeniedClaims(eng)

		day, _, _ := eng.Clock()
		fmt.Printf("day %2d  balance %6d  claims %d\n", day-1, eng.Balance(), len(eng.Claims()))
	}

	printReport(eng, recorder)
}

func seedPractice(eng *engine.Engine) {
	eng.AddTherapist(&therapist.Therapist{
		ID:              "t-owner",
		DisplayName:     "Dr. Reyes",
		IsPlayer:        true,
		BaseSkill:       6,
		Traits:          therapist.Traits{Warmth: 7, Analytical: 5, Creativity: 4},
		Specializations: []string{"anxiety"},
	})
	eng.AddTherapist(&therapist.Therapist{
		ID:              "t-assoc",
		DisplayName:     "Sam Okafor",
		BaseSkill:       5,
		Traits:          therapist.Traits{Warmth: 4, Analytical: 8, Creativity: 3},
		Certifications:  []therapist.Certification{therapist.CertTrauma},
		Specializations: []string{"trauma"},
	})

	eng.AddPanel(insurance.Panel{
		InsurerID:     "ins-bluewave",
		Name:          "BlueWave Health",
		Reimbursement: 110,
		DelayDays:     5,
		DenialRate:    0.15,
	})

	eng.AddClient(&clients.Client{
		ID:                     "c-anx-1",
		ConditionCategory:      "anxiety",
		Severity:               4,
		SessionsRequired:       8,
		Satisfaction:           75,
		Engagement:             70,
		IsPrivatePay:           true,
		SessionRate:            120,
		PreferredFrequencyDays: 7,
		PreferredHour:          10,
		MaxWaitDays:            10,
	})
	eng.AddClient(&clients.Client{
		ID:                     "c-trauma-1",
		ConditionCategory:      "trauma",
		Severity:               7,
		SessionsRequired:       12,
		Satisfaction:           65,
		Engagement:             80,
		SessionRate:            120,
		InsuranceProvider:      "ins-bluewave",
		RequiredCertification:  therapist.CertTrauma,
		PreferredFrequencyDays: 7,
		PreferredHour:          14,
		MaxWaitDays:            6,
	})
	eng.AddClient(&clients.Client{
		ID:                     "c-dep-1",
		ConditionCategory:      "depression",
		Severity:               5,
		SessionsRequired:       10,
		Satisfaction:           70,
		Engagement:             55,
		IsPrivatePay:           true,
		SessionRate:            100,
		PreferredFrequencyDays: 4,
		PreferredHour:          9,
		MaxWaitDays:            8,
	})
}

// bookFromSuggestions accepts the top suggestions for the day wholesale,
// the way an auto-scheduler assistant would.
func bookFromSuggestions(eng *engine.Engine) {
	for _, s := range eng.Suggestions(5) {
		_, err := eng.BookSession(engine.BookingRequest{
			ClientID:        s.ClientID,
			TherapistID:     s.TherapistID,
			Day:             s.Day,
			Hour:            s.Hour,
			DurationMinutes: 50,
			IsVirtual:       s.IsVirtual,
		})
		if err != nil {
			continue
		}
	}
}

// resolveDecisions answers any in-session decision with the first choice
// so blocked sessions can finish.
func resolveDecisions(eng *engine.Engine) {
	for _, s := range eng.Snapshot().Sessions {
		if s.PendingDecisionID == "" {
			continue
		}
		_ = eng.ApplyDecision(s.ID, 0)
	}
}

func appealDeniedClaims(eng *engine.Engine) {
	for _, c := range eng.Claims() {
		if c.Status == insurance.ClaimDenied {
			_ = eng.SubmitAppeal(c.ID)
		}
	}
}

func printReport(eng *engine.Engine, recorder *events.Recorder) {
	completed := len(recorder.OfType("session.completed.v1"))
	cancelled := len(recorder.OfType("session.cancelled.v1"))
	paid := len(recorder.OfType("insurance.claim.paid.v1"))
	denied := len(recorder.OfType("insurance.claim.denied.v1"))
	dropped := len(recorder.OfType("client.dropped.v1"))

	fmt.Println()
	fmt.Printf("final balance:      %d\n", eng.Balance())
	fmt.Printf("sessions completed: %d\n", completed)
	fmt.Printf("sessions cancelled: %d\n", cancelled)
	fmt.Printf("claims paid/denied: %d/%d\n", paid, denied)
	fmt.Printf("clients dropped:    %d\n", dropped)
}
