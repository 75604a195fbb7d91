package engine

import (
	"context"
	"fmt"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/save"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
)

// AddTherapist registers a therapist with the practice.
func (e *Engine) AddTherapist(th *therapist.Therapist) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if th.Status == "" {
		th.Status = therapist.StatusAvailable
	}
	if th.Level == 0 {
		th.Level = 1
	}
	if th.MaxEnergy == 0 {
		th.MaxEnergy = 100
	}
	if th.Energy == 0 {
		th.Energy = th.MaxEnergy
	}
	e.state.Therapists[th.ID] = th
	e.logger.Info("therapist added", "therapist_id", th.ID, "name", th.DisplayName)
}

// AddClient puts a client on the waiting list.
func (e *Engine) AddClient(c *clients.Client) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c.Status == "" {
		c.Status = clients.StatusWaiting
	}
	if c.ArrivalDay == 0 {
		c.ArrivalDay = e.state.Clock.Day
	}
	// Fresh clients arrive in reasonable spirits; a zero here would put
	// them under the waiting-list dropout floor on their first midnight.
	if c.Satisfaction == 0 {
		c.Satisfaction = 70
	}
	if c.Engagement == 0 {
		c.Engagement = 70
	}
	e.state.Clients[c.ID] = c
	e.logger.Info("client added",
		"client_id", c.ID,
		"condition", c.ConditionCategory,
		"severity", c.Severity,
	)
}

// AddPanel registers an insurance panel the practice accepts.
func (e *Engine) AddPanel(p insurance.Panel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Panels[p.InsurerID] = p
}

// UnlockTelehealth enables virtual sessions.
func (e *Engine) UnlockTelehealth() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TelehealthUnlocked = true
}

// SetRooms changes the physical room capacity. Existing bookings are
// honored even if they now exceed capacity.
func (e *Engine) SetRooms(rooms int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rooms > 0 {
		e.state.Rooms = rooms
	}
}

// Snapshot captures the current world for serialization or inspection.
func (e *Engine) Snapshot() save.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot()
}

// Restore replaces the world with a snapshot, rebuilding derived state.
func (e *Engine) Restore(snap save.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = stateFromSnapshot(snap)
	e.metrics.SetBalance(e.state.Balance)
	e.logger.Info("state restored", "day", snap.Clock.Day, "sessions", len(snap.Sessions))
}

// SaveGame prunes stale history and persists the snapshot.
func (e *Engine) SaveGame(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "engine.save_game")
	defer span.End()

	e.mu.Lock()
	snap := save.Prune(e.state.snapshot(), e.rules.RetentionDays)
	e.mu.Unlock()

	if err := e.store.Save(ctx, snap); err != nil {
		span.RecordError(err)
		return fmt.Errorf("engine: save failed: %w", err)
	}
	return nil
}

// LoadGame restores the last saved snapshot.
func (e *Engine) LoadGame(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "engine.load_game")
	defer span.End()

	snap, err := e.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("engine: load failed: %w", err)
	}
	e.Restore(snap)
	return nil
}
