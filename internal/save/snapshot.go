// Package save persists and restores the simulation state. Snapshots carry
// only source-of-truth data; derived structures like the schedule grid are
// rebuilt on load.
package save

import (
	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// CurrentVersion is the snapshot schema version. Bump it on any breaking
// change to the snapshot layout.
const CurrentVersion = 1

// Snapshot is the full serializable state of a running practice.
type Snapshot struct {
	Version int           `json:"version"`
	Clock   gametime.Time `json:"clock"`

	Balance            int  `json:"balance"`
	Rooms              int  `json:"rooms"`
	TelehealthUnlocked bool `json:"telehealthUnlocked"`

	Therapists []*therapist.Therapist   `json:"therapists"`
	Clients    []*clients.Client        `json:"clients"`
	Sessions   []*session.Session       `json:"sessions"`
	Claims     []*insurance.PendingClaim `json:"claims"`
}

// Prune drops stale session history to bound snapshot growth. A session is
// retained when it is still upcoming, recent enough to matter, or belongs
// to a client who is still with the practice.
func Prune(snap Snapshot, retentionDays int) Snapshot {
	activeClients := make(map[string]bool, len(snap.Clients))
	for _, c := range snap.Clients {
		if c.Active() {
			activeClients[c.ID] = true
		}
	}

	cutoff := snap.Clock.Day - retentionDays
	kept := make([]*session.Session, 0, len(snap.Sessions))
	for _, s := range snap.Sessions {
		switch {
		case s.ScheduledDay >= snap.Clock.Day:
			kept = append(kept, s)
		case s.ScheduledDay >= cutoff:
			kept = append(kept, s)
		case activeClients[s.ClientID]:
			kept = append(kept, s)
		}
	}
	snap.Sessions = kept
	return snap
}
