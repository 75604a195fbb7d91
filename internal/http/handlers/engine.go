// Package handlers exposes the simulation engine over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/engine"
	"github.com/tycoonlabs/therapy-tycoon/internal/insurance"
	"github.com/tycoonlabs/therapy-tycoon/internal/save"
	"github.com/tycoonlabs/therapy-tycoon/internal/schedule"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

// EngineConfig wires the engine handler's dependencies.
type EngineConfig struct {
	Engine *engine.Engine
	Logger *logging.Logger
}

// EngineHandler translates HTTP requests into engine commands.
type EngineHandler struct {
	engine *engine.Engine
	logger *logging.Logger
}

func NewEngineHandler(cfg EngineConfig) *EngineHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &EngineHandler{
		engine: cfg.Engine,
		logger: cfg.Logger.WithComponent("http"),
	}
}

// HealthCheck reports liveness.
func (h *EngineHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type stateResponse struct {
	Day     int `json:"day"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
	Balance int `json:"balance"`
}

// GetState returns the clock and balance.
// Route: GET /api/state
func (h *EngineHandler) GetState(w http.ResponseWriter, _ *http.Request) {
	day, hour, minute := h.engine.Clock()
	writeJSON(w, http.StatusOK, stateResponse{
		Day:     day,
		Hour:    hour,
		Minute:  minute,
		Balance: h.engine.Balance(),
	})
}

type advanceRequest struct {
	Minutes int `json:"minutes"`
	Hours   int `json:"hours"`
	Days    int `json:"days"`
}

// Advance moves the clock forward.
// Route: POST /api/clock/advance
func (h *EngineHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	total := req.Minutes + req.Hours*60 + req.Days*24*60
	if total <= 0 {
		http.Error(w, "advance must be positive", http.StatusBadRequest)
		return
	}
	h.engine.AdvanceMinutes(total)
	h.GetState(w, r)
}

type skipRequest struct {
	Days int `json:"days"`
}

// Skip fast-forwards whole days.
// Route: POST /api/clock/skip
func (h *EngineHandler) Skip(w http.ResponseWriter, r *http.Request) {
	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Days <= 0 {
		http.Error(w, "days must be positive", http.StatusBadRequest)
		return
	}
	h.engine.SkipDays(req.Days)
	h.GetState(w, r)
}

// BookSession books a single session.
// Route: POST /api/sessions
func (h *EngineHandler) BookSession(w http.ResponseWriter, r *http.Request) {
	var req engine.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s, err := h.engine.BookSession(req)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

type recurringRequest struct {
	ClientID    string                    `json:"clientId"`
	TherapistID string                    `json:"therapistId"`
	Series      schedule.RecurringRequest `json:"series"`
}

// BookRecurring books a session series.
// Route: POST /api/sessions/recurring
func (h *EngineHandler) BookRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.engine.BookRecurring(req.ClientID, req.TherapistID, req.Series)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetSession fetches one session.
// Route: GET /api/sessions/{sessionID}
func (h *EngineHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelSession aborts a session.
// Route: DELETE /api/sessions/{sessionID}
func (h *EngineHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Reason = "cancelled"
	}
	if req.Reason == "" {
		req.Reason = "cancelled"
	}
	if err := h.engine.CancelSession(chi.URLParam(r, "sessionID"), req.Reason); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPendingDecision returns the decision event a session is waiting on.
// Route: GET /api/sessions/{sessionID}/decision
func (h *EngineHandler) GetPendingDecision(w http.ResponseWriter, r *http.Request) {
	event, err := h.engine.PendingDecision(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if event == nil {
		http.Error(w, "no pending decision", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type decisionRequest struct {
	ChoiceIndex int `json:"choiceIndex"`
}

// ApplyDecision resolves a pending decision event.
// Route: POST /api/sessions/{sessionID}/decision
func (h *EngineHandler) ApplyDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.engine.ApplyDecision(chi.URLParam(r, "sessionID"), req.ChoiceIndex); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSuggestions returns ranked booking recommendations.
// Route: GET /api/suggestions?max=N
func (h *EngineHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	max := 5
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "max must be a positive integer", http.StatusBadRequest)
			return
		}
		max = parsed
	}
	writeJSON(w, http.StatusOK, h.engine.Suggestions(max))
}

// ListClaims returns every insurance claim.
// Route: GET /api/claims
func (h *EngineHandler) ListClaims(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Claims())
}

// SubmitAppeal appeals a denied claim.
// Route: POST /api/claims/{claimID}/appeal
func (h *EngineHandler) SubmitAppeal(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.SubmitAppeal(chi.URLParam(r, "claimID")); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTherapist registers a therapist.
// Route: POST /api/therapists
func (h *EngineHandler) AddTherapist(w http.ResponseWriter, r *http.Request) {
	var th therapist.Therapist
	if err := json.NewDecoder(r.Body).Decode(&th); err != nil || th.ID == "" {
		http.Error(w, "invalid therapist", http.StatusBadRequest)
		return
	}
	h.engine.AddTherapist(&th)
	writeJSON(w, http.StatusCreated, th)
}

// AddClient puts a client on the waiting list.
// Route: POST /api/clients
func (h *EngineHandler) AddClient(w http.ResponseWriter, r *http.Request) {
	var c clients.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.ID == "" {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	h.engine.AddClient(&c)
	writeJSON(w, http.StatusCreated, c)
}

// AddPanel registers an insurance panel.
// Route: POST /api/panels
func (h *EngineHandler) AddPanel(w http.ResponseWriter, r *http.Request) {
	var p insurance.Panel
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.InsurerID == "" {
		http.Error(w, "invalid panel", http.StatusBadRequest)
		return
	}
	h.engine.AddPanel(p)
	writeJSON(w, http.StatusCreated, p)
}

// SaveGame persists the current state.
// Route: POST /api/save
func (h *EngineHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.SaveGame(r.Context()); err != nil {
		h.logger.Error("save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadGame restores the last saved state.
// Route: POST /api/load
func (h *EngineHandler) LoadGame(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.LoadGame(r.Context()); err != nil {
		if errors.Is(err, save.ErrNoSave) {
			http.Error(w, "no saved game", http.StatusNotFound)
			return
		}
		h.logger.Error("load failed", "error", err)
		http.Error(w, "load failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSnapshot returns the full world state.
// Route: GET /api/snapshot
func (h *EngineHandler) GetSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *EngineHandler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownClient),
		errors.Is(err, engine.ErrUnknownTherapist),
		errors.Is(err, engine.ErrUnknownSession),
		errors.Is(err, engine.ErrUnknownClaim):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrBookingRejected),
		errors.Is(err, engine.ErrSessionNotCancellable),
		errors.Is(err, insurance.ErrClaimNotDenied),
		errors.Is(err, insurance.ErrAppealWindowExpired),
		errors.Is(err, insurance.ErrAlreadyAppealed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, engine.ErrInvalidDuration),
		errors.Is(err, session.ErrChoiceOutOfRange),
		errors.Is(err, session.ErrNoPendingDecision):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("engine command failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
