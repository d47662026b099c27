package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.LocalAuth())
	assert.Equal(t, "https://arda.torre.co", cfg.TorreSearchBase)
	assert.Equal(t, []string{"torre", "software engineer", "product designer"}, cfg.TopTalentTerms)
	assert.Equal(t, 0.05, cfg.TopTalentMinRank)
	assert.Equal(t, 0.5, cfg.TopTalentMinCompletion)
	assert.Equal(t, 3, cfg.TopTalentOverFetch)
	assert.Equal(t, 150*time.Millisecond, cfg.TopTalentTermDelay)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, ChatProviderOpenRouter, cfg.ChatProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_UPSTREAM_URL", "https://auth.example.com/")
	t.Setenv("TOP_TALENT_TERMS", " go , , rust ")
	t.Setenv("TOP_TALENT_TERM_DELAY", "1s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.LocalAuth())
	assert.Equal(t, "https://auth.example.com", cfg.AuthUpstreamURL)
	assert.Equal(t, []string{"go", "rust"}, cfg.TopTalentTerms)
	assert.Equal(t, time.Second, cfg.TopTalentTermDelay)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisAddr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"local auth needs secret", map[string]string{}},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "TORRE_TIMEOUT": "soon"}},
		{"overfetch below two", map[string]string{"JWT_SECRET": "s", "TOP_TALENT_OVERFETCH": "1"}},
		{"overfetch past one page", map[string]string{"JWT_SECRET": "s", "TOP_TALENT_OVERFETCH": "6"}},
		{"unknown chat provider", map[string]string{"JWT_SECRET": "s", "CHAT_PROVIDER": "other"}},
		{"vertex needs project", map[string]string{"JWT_SECRET": "s", "CHAT_PROVIDER": "vertex"}},
		{"bad float", map[string]string{"JWT_SECRET": "s", "TOP_TALENT_MIN_RANK": "high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
