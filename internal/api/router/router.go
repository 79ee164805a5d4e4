package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lenilani/lenilani-ai/internal/http/handlers"
	httpmiddleware "github.com/lenilani/lenilani-ai/internal/http/middleware"
	"github.com/lenilani/lenilani-ai/internal/leads"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	LeadsHandler       *leads.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	ChatRateLimit      int
	ResetRateLimit     int
	RateLimitWindow    time.Duration
}

// New creates a new Chi router with all routes configured
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

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	chatLimit := cfg.ChatRateLimit
	if chatLimit <= 0 {
		chatLimit = 30
	}
	resetLimit := cfg.ResetRateLimit
	if resetLimit <= 0 {
		resetLimit = 5
	}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.With(httpmiddleware.RateLimit(chatLimit, window)).
			Post("/chat", cfg.ChatHandler.Chat)
		api.With(httpmiddleware.RateLimit(resetLimit, window)).
			Post("/reset", cfg.ChatHandler.Reset)
		api.Get("/analytics", cfg.AnalyticsHandler.Dashboard)
		if cfg.LeadsHandler != nil {
			api.Get("/leads", cfg.LeadsHandler.ListLeads)
		}
	})

	return r
}
