package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COURSEDASH_CONFIG", "")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 7521, cfg.Server.Port)
	assert.Equal(t, ":7521", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, SourceEmbedded, cfg.Dataset.Source)
	assert.Equal(t, 10*time.Second, cfg.Dataset.LoadTimeout)
	assert.Equal(t, "courses", cfg.Mongo.Collection)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COURSEDASH_CONFIG", "")
	t.Setenv("COURSEDASH_SERVER_PORT", "9000")
	t.Setenv("COURSEDASH_LOG_FORMAT", "json")
	t.Setenv("COURSEDASH_DATASET_SOURCE", "file")
	t.Setenv("COURSEDASH_DATASET_PATH", "/srv/courses.yaml")
	t.Setenv("COURSEDASH_DATASET_LOAD_TIMEOUT", "3s")
	t.Setenv("COURSEDASH_RATELIMIT_RPS", "2.5")
	t.Setenv("COURSEDASH_SERVER_TRUST_PROXY", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, "/srv/courses.yaml", cfg.Dataset.Path)
	assert.Equal(t, 3*time.Second, cfg.Dataset.LoadTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 1e-9)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("COURSEDASH_CONFIG", "")
	path := filepath.Join(t.TempDir(), "coursedash.yaml")
	body := "dashboard:\n  title: Formación\nserver:\n  port: 8088\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("COURSEDASH_SERVER_PORT", "8099")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Formación", cfg.Dashboard.Title)
	assert.Equal(t, 8099, cfg.Server.Port, "env wins over file")
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoadFlagsWin(t *testing.T) {
	t.Setenv("COURSEDASH_CONFIG", "")
	t.Setenv("COURSEDASH_SERVER_PORT", "9000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "9100", "--log-level", "debug"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, SourceEmbedded, cfg.Dataset.Source, "unset flags keep defaults")
}

func TestValidate(t *testing.T) {
	t.Setenv("COURSEDASH_CONFIG", "")
	base, err := Load("", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Dataset.Source = "s3" }},
		{"file without path", func(c *Config) { c.Dataset.Source = SourceFile }},
		{"sqlite without path", func(c *Config) { c.Dataset.Source = SourceSQLite }},
		{"mongo without uri", func(c *Config) { c.Dataset.Source = SourceMongo }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}

	ok := base
	ok.Dataset.Source = SourceMongo
	ok.Mongo.URI = "mongodb://localhost:27017"
	assert.NoError(t, ok.Validate())
}
