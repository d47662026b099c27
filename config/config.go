// Package config loads and validates environment variables at startup and
// owns the database client constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ChatProviderOpenRouter = "openrouter"
	ChatProviderVertex     = "vertex"

	// default top limit of 20 over-fetched within a 100 row provider page
	maxOverFetch = 5
)

type Config struct {
	Port           string
	LogLevel       string
	AllowedOrigins []string

	PostgresURI string
	MongoURI    string
	MongoDB     string
	RedisAddr   string

	TorreAPIBase    string
	TorreSearchBase string
	TorreTimeout    time.Duration

	AuthUpstreamURL string
	JWTSecret       string
	JWTTTL          time.Duration

	ChatProvider     string
	ChatAPIURL       string
	ChatAPIKey       string
	ChatDefaultModel string
	VertexProject    string
	VertexLocation   string
	VertexModel      string

	GCSExportBucket string

	TopTalentTerms         []string
	TopTalentMinRank       float64
	TopTalentMinCompletion float64
	TopTalentOverFetch     int
	TopTalentTermDelay     time.Duration
	TopTalentCacheTTL      time.Duration
	TopTalentWarmupSpec    string

	HistoryWorkers int
}

// LocalAuth reports whether login/register are served by the local backend.
func (c *Config) LocalAuth() bool { return c.AuthUpstreamURL == "" }

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     envOr("PORT", "8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		PostgresURI: os.Getenv("POSTGRES_URI"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     envOr("MONGO_DB", "talentscope"),
		RedisAddr:   firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		TorreAPIBase:    strings.TrimRight(envOr("TORRE_API_BASE", "https://torre.ai/api"), "/"),
		TorreSearchBase: strings.TrimRight(envOr("TORRE_SEARCH_BASE", "https://arda.torre.co"), "/"),

		AuthUpstreamURL: strings.TrimRight(os.Getenv("AUTH_UPSTREAM_URL"), "/"),
		JWTSecret:       os.Getenv("JWT_SECRET"),

		ChatProvider:     strings.ToLower(envOr("CHAT_PROVIDER", ChatProviderOpenRouter)),
		ChatAPIURL:       envOr("CHAT_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		ChatAPIKey:       os.Getenv("CHAT_API_KEY"),
		ChatDefaultModel: envOr("CHAT_DEFAULT_MODEL", "openai/gpt-3.5-turbo"),
		VertexProject:    os.Getenv("VERTEX_PROJECT"),
		VertexLocation:   envOr("VERTEX_LOCATION", "us-central1"),
		VertexModel:      envOr("VERTEX_MODEL", "gemini-1.5-flash"),

		GCSExportBucket: os.Getenv("GCS_EXPORT_BUCKET"),

		TopTalentTerms:      splitList(envOr("TOP_TALENT_TERMS", "torre,software engineer,product designer")),
		TopTalentWarmupSpec: os.Getenv("TOP_TALENT_WARMUP_SPEC"),
	}

	var err error
	if cfg.TorreTimeout, err = durationEnv("TORRE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TopTalentMinRank, err = floatEnv("TOP_TALENT_MIN_RANK", 0.05); err != nil {
		return nil, err
	}
	if cfg.TopTalentMinCompletion, err = floatEnv("TOP_TALENT_MIN_COMPLETION", 0.5); err != nil {
		return nil, err
	}
	if cfg.TopTalentOverFetch, err = intEnv("TOP_TALENT_OVERFETCH", 3); err != nil {
		return nil, err
	}
	if cfg.TopTalentTermDelay, err = durationEnv("TOP_TALENT_TERM_DELAY", 150*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.TopTalentCacheTTL, err = durationEnv("TOP_TALENT_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HistoryWorkers, err = intEnv("HISTORY_WORKERS", 2); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LocalAuth() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_UPSTREAM_URL is not set")
	}
	switch c.ChatProvider {
	case ChatProviderOpenRouter:
	case ChatProviderVertex:
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required when CHAT_PROVIDER=vertex")
		}
	default:
		return fmt.Errorf("CHAT_PROVIDER must be %q or %q, got %q", ChatProviderOpenRouter, ChatProviderVertex, c.ChatProvider)
	}
	if len(c.TopTalentTerms) == 0 {
		return fmt.Errorf("TOP_TALENT_TERMS must name at least one term")
	}
	if c.TopTalentOverFetch < 2 || c.TopTalentOverFetch > maxOverFetch {
		return fmt.Errorf("TOP_TALENT_OVERFETCH must be between 2 and %d, got %d", maxOverFetch, c.TopTalentOverFetch)
	}
	if c.TorreTimeout <= 0 {
		return fmt.Errorf("TORRE_TIMEOUT must be positive, got %s", c.TorreTimeout)
	}
	if c.HistoryWorkers < 1 {
		return fmt.Errorf("HISTORY_WORKERS must be a positive integer, got %d", c.HistoryWorkers)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 15s, got %q", key, s)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, s)
	}
	return v, nil
}
