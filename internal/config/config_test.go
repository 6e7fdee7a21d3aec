package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/internal/config"
)

// TestLoad_Defaults tests the out-of-the-box configuration
func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := config.Load(home, "", nil)
	require.NoError(t, err)

	require.Equal(t, home, cfg.Home)
	require.Equal(t, "goleveldb", cfg.DB.Backend)
	require.Equal(t, filepath.Join(home, "data"), cfg.DB.Dir)
	require.Equal(t, "uatom", cfg.Pool.Asset0)
	require.Equal(t, "uusdc", cfg.Pool.Asset1)
	require.Equal(t, "127.0.0.1:8080", cfg.API.Listen)
	require.Equal(t, config.JournalJSONL, cfg.Journal.Mode)
	require.Equal(t, filepath.Join(home, "journal.jsonl"), cfg.Journal.Path)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)

	require.NoError(t, cfg.Validate())
}

// TestLoad_EnvOverride tests environment variables taking effect
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PAIRPOOL_POOL_ASSET0", "uosmo")
	t.Setenv("PAIRPOOL_API_LISTEN", "0.0.0.0:8181")
	t.Setenv("PAIRPOOL_LOG_LEVEL", "debug")

	cfg, err := config.Load(t.TempDir(), "", nil)
	require.NoError(t, err)
	require.Equal(t, "uosmo", cfg.Pool.Asset0)
	require.Equal(t, "0.0.0.0:8181", cfg.API.Listen)
	require.Equal(t, "debug", cfg.Log.Level)
}

// TestLoad_File tests reading an explicit config file
func TestLoad_File(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "custom.yaml")
	body := []byte("pool:\n  asset0: ueth\n  asset1: udai\njournal:\n  mode: \"off\"\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := config.Load(home, path, nil)
	require.NoError(t, err)
	require.Equal(t, "ueth", cfg.Pool.Asset0)
	require.Equal(t, "udai", cfg.Pool.Asset1)
	require.Equal(t, config.JournalOff, cfg.Journal.Mode)
}

// TestValidate tests each rejection in turn
func TestValidate(t *testing.T) {
	valid := func(t *testing.T) config.Config {
		cfg, err := config.Load(t.TempDir(), "", nil)
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"bad backend", func(c *config.Config) { c.DB.Backend = "rocksdb" }, "db.backend"},
		{"identical assets", func(c *config.Config) { c.Pool.Asset1 = c.Pool.Asset0 }, "must differ"},
		{"slash in asset", func(c *config.Config) { c.Pool.Asset0 = "ua/tom" }, "must not contain"},
		{"missing listen", func(c *config.Config) { c.API.Listen = "" }, "api.listen"},
		{"zero rate limit", func(c *config.Config) { c.API.RateLimit = 0 }, "rate-limit"},
		{"auth without secret", func(c *config.Config) { c.Auth.Enabled = true }, "jwt-secret"},
		{"bad journal mode", func(c *config.Config) { c.Journal.Mode = "kafka" }, "journal.mode"},
		{"jsonl without path", func(c *config.Config) { c.Journal.Path = "" }, "journal.path"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "chatty" }, "log.level"},
		{"bad sample ratio", func(c *config.Config) { c.Telemetry.SampleRatio = 1.5 }, "sample-ratio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// TestWriteDefault tests init-style config generation and the no-clobber
// guard
func TestWriteDefault(t *testing.T) {
	home := t.TempDir()
	cfg, err := config.Load(home, "", nil)
	require.NoError(t, err)
	cfg.Pool.Asset0 = "ueth"

	path, err := config.WriteDefault(cfg)
	require.NoError(t, err)
	require.FileExists(t, path)

	loaded, err := config.Load(home, "", nil)
	require.NoError(t, err)
	require.Equal(t, "ueth", loaded.Pool.Asset0)

	_, err = config.WriteDefault(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}
