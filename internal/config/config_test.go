package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 20, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
	assert.Equal(t, 5, cfg.CandidateFanout)
	assert.Equal(t, 5.0, cfg.MinMatchScore)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.L1CacheSize)

	total := cfg.DistanceWeight + cfg.AgeWeight + cfg.SportsWeight + cfg.HeightWeight + cfg.VerifiedWeight
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_MATCH_LIMIT", "10")
	t.Setenv("MIN_MATCH_SCORE", "12.5")
	t.Setenv("CACHE_TTL", "1m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 12.5, cfg.MinMatchScore)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.MaxLimit = 1
	cfg.DefaultLimit = 20
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.MinMatchScore = 150
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRequiresAppwrite(t *testing.T) {
	cfg := Load()
	cfg.Environment = "production"
	cfg.AppwriteAPIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.AppwriteAPIKey = "key"
	cfg.AppwriteProjectID = "project"
	cfg.AppwriteDatabaseID = "db"
	assert.NoError(t, cfg.Validate())
}
