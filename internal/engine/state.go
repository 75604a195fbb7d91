package engine

import (
	"sort"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/save"
	"github.com/tycoonlabs/therapy-tycoon/internal/schedule"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// State is the mutable simulation world. The engine owns it exclusively;
// nothing outside the engine mutates it.
type State struct {
	Clock   gametime.Time
	Balance int

	Rooms              int
	TelehealthUnlocked bool

	Therapists map[string]*therapist.Therapist
	Clients    map[string]*clients.Client
	Sessions   map[string]*session.Session
	Claims     map[string]*insurance.PendingClaim
	Panels     map[string]insurance.Panel

	// Grid is derived from Sessions and kept in lockstep with it. It is
	// never serialized; restores rebuild it.
	Grid schedule.Grid
}

func newState() *State {
	return &State{
		Clock:      gametime.Start(),
		Rooms:      1,
		Therapists: make(map[string]*therapist.Therapist),
		Clients:    make(map[string]*clients.Client),
		Sessions:   make(map[string]*session.Session),
		Claims:     make(map[string]*insurance.PendingClaim),
		Panels:     make(map[string]insurance.Panel),
		Grid:       make(schedule.Grid),
	}
}

// Map iteration order is random; every pass that mutates state or draws
// randomness walks entities in sorted-ID order so identical seeds replay
// identically.

func (st *State) sessionsSorted() []*session.Session {
	ids := make([]string, 0, len(st.Sessions))
	for id := range st.Sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*session.Session, len(ids))
	for i, id := range ids {
		out[i] = st.Sessions[id]
	}
	return out
}

func (st *State) clientsSorted() []*clients.Client {
	ids := make([]string, 0, len(st.Clients))
	for id := range st.Clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*clients.Client, len(ids))
	for i, id := range ids {
		out[i] = st.Clients[id]
	}
	return out
}

func (st *State) therapistsSorted() []*therapist.Therapist {
	ids := make([]string, 0, len(st.Therapists))
	for id := range st.Therapists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*therapist.Therapist, len(ids))
	for i, id := range ids {
		out[i] = st.Therapists[id]
	}
	return out
}

func (st *State) claimsSorted() []*insurance.PendingClaim {
	ids := make([]string, 0, len(st.Claims))
	for id := range st.Claims {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*insurance.PendingClaim, len(ids))
	for i, id := range ids {
		out[i] = st.Claims[id]
	}
	return out
}

func (st *State) snapshot() save.Snapshot {
	return save.Snapshot{
		Version:            save.CurrentVersion,
		Clock:              st.Clock,
		Balance:            st.Balance,
		Rooms:              st.Rooms,
		TelehealthUnlocked: st.TelehealthUnlocked,
		Therapists:         st.therapistsSorted(),
		Clients:            st.clientsSorted(),
		Sessions:           st.sessionsSorted(),
		Claims:             st.claimsSorted(),
	}
}

func stateFromSnapshot(snap save.Snapshot) *State {
	st := newState()
	st.Clock = snap.Clock
	st.Balance = snap.Balance
	st.Rooms = snap.Rooms
	st.TelehealthUnlocked = snap.TelehealthUnlocked
	for _, th := range snap.Therapists {
		st.Therapists[th.ID] = th
	}
	for _, c := range snap.Clients {
		st.Clients[c.ID] = c
	}
	for _, s := range snap.Sessions {
		st.Sessions[s.ID] = s
	}
	for _, c := range snap.Claims {
		st.Claims[c.ID] = c
	}
	st.Grid = schedule.BuildFromSessions(snap.Sessions)
	return st
}
