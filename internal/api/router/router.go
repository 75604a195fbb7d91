// Package router assembles the HTTP surface of the simulation engine.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tycoonlabs/therapy-tycoon/internal/http/handlers"
	httpmiddleware "github.com/tycoonlabs/therapy-tycoon/internal/http/middleware"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Engine             *handlers.EngineHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// CommandRateLimit throttles state-changing endpoints per IP;
	// zero disables limiting.
	CommandRateLimit float64
	CommandBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Engine.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.CommandRateLimit > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.CommandRateLimit, cfg.CommandBurst))
		}

		api.Get("/state", cfg.Engine.GetState)
		api.Get("/snapshot", cfg.Engine.GetSnapshot)

		api.Post("/clock/advance", cfg.Engine.Advance)
		api.Post("/clock/skip", cfg.Engine.Skip)

		api.Route("/sessions", func(s chi.Router) {
			s.Post("/", cfg.Engine.BookSession)
			s.Post("/recurring", cfg.Engine.BookRecurring)
			s.Route("/{sessionID}", func(one chi.Router) {
				one.Get("/", cfg.Engine.GetSession)
				one.Delete("/", cfg.Engine.CancelSession)
				one.Get("/decision", cfg.Engine.GetPendingDecision)
				one.Post("/decision", cfg.Engine.ApplyDecision)
			})
		})

		api.Get("/suggestions", cfg.Engine.GetSuggestions)

		api.Route("/claims", func(c chi.Router) {
			c.Get("/", cfg.Engine.ListClaims)
			c.Post("/{claimID}/appeal", cfg.Engine.SubmitAppeal)
		})

		api.Post("/therapists", cfg.Engine.AddTherapist)
		api.Post("/clients", cfg.Engine.AddClient)
		api.Post("/panels", cfg.Engine.AddPanel)

		api.Post("/save", cfg.Engine.SaveGame)
		api.Post("/load", cfg.Engine.LoadGame)
	})

	return r
}
