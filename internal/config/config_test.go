package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "cineflix_premium", cfg.Database)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 20, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.RetentionInterval)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_RequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	os.Unsetenv("MONGO_URI")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "MONGO_URI=mongodb://db:27017\nDB_CHANNEL_ADULT=-1001\nDB_CHANNEL_MOVIE=-1002\nDB_CHANNEL_SERIES=-1003\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	for _, k := range []string{"MONGO_URI", "DB_CHANNEL_ADULT", "DB_CHANNEL_MOVIE", "DB_CHANNEL_SERIES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)

	stores := cfg.Stores()
	assert.Equal(t, int64(-1001), stores.For(model.CategoryAdult))
	assert.Equal(t, int64(-1003), stores.For(model.CategorySeries))
	assert.Equal(t, int64(-1002), stores.For(model.CategoryOther))
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("RATE_LIMIT_MAX", "0")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_RejectsNonChannelStore(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	for _, k := range []string{"DB_CHANNEL_ADULT", "DB_CHANNEL_SERIES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	t.Setenv("DB_CHANNEL_MOVIE", "12345")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "movie channel 12345")

	t.Setenv("DB_CHANNEL_MOVIE", "-1002")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, int64(-1002), cfg.ChannelMovie)
}
