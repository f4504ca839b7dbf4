package config

import (
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, "badges", cfg.BadgeDir)
	assert.Empty(t, cfg.RabbitURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "events")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=events sslmode=disable", cfg.DSN())
}

func TestLoad_InvalidStorage(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE", "s3")

	_, err := Load()

	assert.ErrorContains(t, err, `unknown storage "s3"`)
}

func TestOverride_FromYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("data_dir: /var/lib/registrations\nflush_interval: 1m\n")))

	require.NoError(t, cfg.Override(v))
	assert.Equal(t, "/var/lib/registrations", cfg.DataDir)
	assert.Equal(t, time.Minute, cfg.FlushInterval)
	assert.Equal(t, "8080", cfg.ServerPort)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}

	cfg.SetupLogging()

	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
