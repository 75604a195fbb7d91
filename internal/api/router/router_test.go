package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycoonlabs/therapy-tycoon/internal/clients"
	"github.com/tycoonlabs/therapy-tycoon/internal/engine"
	"github.com/tycoonlabs/therapy-tycoon/internal/http/handlers"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
	"github.com/tycoonlabs/therapy-tycoon/internal/session"
	"github.com/tycoonlabs/therapy-tycoon/internal/therapist"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *engine.Engine) {
	t.Helper()

	eng := engine.New(engine.Options{
		Rules:        rules.Default(),
		Seed:         42,
		Rooms:        2,
		Balance:      1000,
		DecisionDeck: []session.DecisionEvent{},
	})
	eng.AddTherapist(&therapist.Therapist{
		ID: "t1", DisplayName: "Dana", BaseSkill: 70, Energy: 100, MaxEnergy: 100,
	})
	eng.AddClient(&clients.Client{
		ID: "c1", ConditionCategory: "anxiety", Severity: 5,
		IsPrivatePay: true, SessionRate: 100,
		Satisfaction: 70, Engagement: 70, SessionsRequired: 8, MaxWaitDays: 30,
	})

	cfg := &Config{
		Logger: logging.Default(),
		Engine: handlers.NewEngineHandler(handlers.EngineConfig{Engine: eng}),
	}
	return New(cfg), eng
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetState(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Day     int `json:"day"`
		Balance int `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Day)
	assert.Equal(t, 1000, resp.Balance)
}

func TestBookSessionEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/sessions", engine.BookingRequest{
		ClientID: "c1", TherapistID: "t1", Day: 1, Hour: 9, DurationMinutes: 50,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var s session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 100, s.Payment)

	// Same slot again conflicts.
	rr = doJSON(t, router, http.MethodPost, "/api/sessions", engine.BookingRequest{
		ClientID: "c1", TherapistID: "t1", Day: 1, Hour: 9, DurationMinutes: 50,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestBookSessionUnknownClient(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/sessions", engine.BookingRequest{
		ClientID: "nope", TherapistID: "t1", Day: 1, Hour: 9, DurationMinutes: 50,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBookSessionInvalidDuration(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/sessions", engine.BookingRequest{
		ClientID: "c1", TherapistID: "t1", Day: 1, Hour: 9, DurationMinutes: 45,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCancelSessionEndpoint(t *testing.T) {
	router, eng := newTestRouter(t)

	s, err := eng.BookSession(engine.BookingRequest{
		ClientID: "c1", TherapistID: "t1", Day: 1, Hour: 9, DurationMinutes: 50,
	})
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodDelete, "/api/sessions/"+s.ID, map[string]string{"reason": "client sick"})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecurringEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/sessions/recurring", map[string]any{
		"clientId":    "c1",
		"therapistId": "t1",
		"series": map[string]any{
			"startDay": 2, "startHour": 10, "intervalDays": 7, "count": 3, "durationMinutes": 50,
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var result engine.RecurringResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.Len(t, result.Sessions, 3)
	assert.Empty(t, result.Failures)
}

func TestClockAdvance(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/clock/advance", map[string]int{"hours": 9})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Hour int `json:"hour"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 9, resp.Hour)

	rr = doJSON(t, router, http.MethodPost, "/api/clock/advance", map[string]int{"minutes": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/suggestions?max=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.NotEmpty(t, got)
	assert.Equal(t, "c1", got[0]["clientId"])

	rr = doJSON(t, router, http.MethodGet, "/api/suggestions?max=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimsEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/claims", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/claims/nope/appeal", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSaveAndLoadEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/save", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/load", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRosterEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/therapists", therapist.Therapist{ID: "t2", DisplayName: "Sam"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/clients", clients.Client{ID: "c2"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/therapists", therapist.Therapist{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
