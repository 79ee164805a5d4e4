package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// LLM configuration. An empty API key disables the LLM integration
	// and chat serves a canned offline reply.
	GeminiAPIKey string
	GeminiModel  string
	LLMMaxTokens int

	// HubSpot configuration. An empty API key disables CRM sync; chat
	// continues to work without it.
	HubSpotAPIKey  string
	HubSpotBaseURL string

	// Session store configuration. Empty RedisAddr falls back to the
	// in-memory store.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	MaxSessions   int

	// Lead archive (optional, postgres).
	DatabaseURL string

	// Rate limiting, requests per client IP per window.
	ChatRateLimit   int
	ResetRateLimit  int
	RateLimitWindow time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMMaxTokens: getEnvAsInt("LLM_MAX_TOKENS", 1024),

		HubSpotAPIKey:  getEnv("HUBSPOT_API_KEY", ""),
		HubSpotBaseURL: getEnv("HUBSPOT_BASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		MaxSessions:   getEnvAsInt("MAX_SESSIONS", 10000),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ChatRateLimit:   getEnvAsInt("CHAT_RATE_LIMIT", 30),
		ResetRateLimit:  getEnvAsInt("RESET_RATE_LIMIT", 5),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
