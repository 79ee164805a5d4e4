package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lenilani/lenilani-ai/internal/analytics"
	"github.com/lenilani/lenilani-ai/internal/api/router"
	appconfig "github.com/lenilani/lenilani-ai/internal/config"
	"github.com/lenilani/lenilani-ai/internal/conversation"
	"github.com/lenilani/lenilani-ai/internal/http/handlers"
	"github.com/lenilani/lenilani-ai/internal/hubspot"
	"github.com/lenilani/lenilani-ai/internal/leads"
	"github.com/lenilani/lenilani-ai/internal/session"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

func main() {
	// Load .env in development; a missing file is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lenilani-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store: redis when configured, in-memory otherwise.
	store, sweeper := buildSessionStore(cfg, logger)
	if sweeper != nil {
		go sweeper.Run(ctx)
	}

	tracker := analytics.NewTracker(prometheus.DefaultRegisterer)

	// LLM: optional, chat degrades to a canned reply without it.
	var llm conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, serving fallback replies")
	}

	// Lead archive: postgres when configured, in-memory otherwise.
	leadsRepo, pool := buildLeadsRepo(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	// CRM: optional, lead sync is skipped without it.
	var crmSync *conversation.CRMSync
	if cfg.HubSpotAPIKey != "" {
		crmClient, err := hubspot.New(hubspot.Config{
			BaseURL: cfg.HubSpotBaseURL,
			APIKey:  cfg.HubSpotAPIKey,
			Logger:  logger.Logger,
		})
		if err != nil {
			logger.Error("failed to create hubspot client", "error", err)
			os.Exit(1)
		}
		crmSync = conversation.NewCRMSync(crmClient, leadsRepo, tracker, logger)
	} else {
		logger.Warn("HUBSPOT_API_KEY not set, CRM sync disabled")
	}

	orchestrator, err := conversation.New(conversation.Config{
		Store:     store,
		LLM:       llm,
		CRM:       crmSync,
		Tracker:   tracker,
		Logger:    logger,
		Model:     cfg.GeminiModel,
		MaxTokens: int32(cfg.LLMMaxTokens),
	})
	if err != nil {
		logger.Error("failed to create orchestrator", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(orchestrator, logger),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(tracker),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRateLimit:      cfg.ChatRateLimit,
		ResetRateLimit:     cfg.ResetRateLimit,
		RateLimitWindow:    cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) (session.Store, *session.Sweeper) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		logger.Info("using redis session store",
			"addr", cfg.RedisAddr,
			"ttl", cfg.SessionTTL,
			"max_sessions", cfg.MaxSessions,
		)
		// Redis evicts by TTL; no sweeper needed.
		return session.NewRedisStore(client, cfg.SessionTTL, cfg.MaxSessions), nil
	}

	logger.Info("using in-memory session store",
		"max_sessions", cfg.MaxSessions,
		"ttl", cfg.SessionTTL,
	)
	store := session.NewMemoryStore(cfg.MaxSessions)
	sweeper := session.NewSweeper(store, cfg.SessionTTL, cfg.SweepInterval, logger)
	return store, sweeper
}

func buildLeadsRepo(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, *pgxpool.Pool) {
	if cfg.DatabaseURL == "" {
		return leads.NewInMemoryRepository(), nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres, using in-memory lead archive", "error", err)
		return leads.NewInMemoryRepository(), nil
	}
	logger.Info("using postgres lead archive")
	return leads.NewPostgresRepository(pool), pool
}
