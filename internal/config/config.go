// Package config loads daemon configuration from file, environment and
// flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/keelworks/pairpool/state"
)

// EnvPrefix is the environment namespace: api.listen becomes
// PAIRPOOL_API_LISTEN.
const EnvPrefix = "PAIRPOOL"

// Journal modes.
const (
	JournalOff      = "off"
	JournalJSONL    = "jsonl"
	JournalPostgres = "postgres"
)

// Config holds every tunable of the daemon.
type Config struct {
	Home      string
	DB        DBConfig
	Pool      PoolConfig
	API       APIConfig
	Ops       OpsConfig
	Auth      AuthConfig
	Journal   JournalConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// DBConfig selects the backing key-value store.
type DBConfig struct {
	Backend string
	Dir     string
}

// PoolConfig pins the trading pair.
type PoolConfig struct {
	Asset0 string
	Asset1 string
}

// APIConfig tunes the public REST listener.
type APIConfig struct {
	Listen      string
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
}

// OpsConfig tunes the operational listener (metrics, health).
type OpsConfig struct {
	Listen string
}

// AuthConfig protects the mutating API routes.
type AuthConfig struct {
	Enabled      bool
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// JournalConfig selects where committed events are journaled.
type JournalConfig struct {
	Mode string
	Path string
	DSN  string
}

// LogConfig tunes structured logging.
type LogConfig struct {
	Level  string
	Format string
}

// TelemetryConfig tunes OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
	Insecure    bool
}

// DefaultHome returns ~/.pairpool, or the current directory fallback when no
// home directory resolves.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pairpool"
	}
	return filepath.Join(home, ".pairpool")
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("home", home)
	v.SetDefault("db.backend", state.BackendLevelDB)
	v.SetDefault("db.dir", "data")
	v.SetDefault("pool.asset0", "uatom")
	v.SetDefault("pool.asset1", "uusdc")
	v.SetDefault("api.listen", "127.0.0.1:8080")
	v.SetDefault("api.cors-origins", []string{"*"})
	v.SetDefault("api.rate-limit", 50.0)
	v.SetDefault("api.rate-burst", 100)
	v.SetDefault("ops.listen", "127.0.0.1:9090")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password-hash", "")
	v.SetDefault("auth.jwt-secret", "")
	v.SetDefault("auth.token-ttl", time.Hour)
	v.SetDefault("journal.mode", JournalJSONL)
	v.SetDefault("journal.path", "journal.jsonl")
	v.SetDefault("journal.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.sample-ratio", 1.0)
	v.SetDefault("telemetry.insecure", true)
}

// Load merges config file, environment variables and flags into a Config.
// cfgFile overrides the default <home>/config.yaml lookup; a missing default
// file is not an error.
func Load(home, cfgFile string, flags *pflag.FlagSet) (Config, error) {
	if home == "" {
		home = DefaultHome()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, home)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Home: v.GetString("home"),
		DB: DBConfig{
			Backend: v.GetString("db.backend"),
			Dir:     v.GetString("db.dir"),
		},
		Pool: PoolConfig{
			Asset0: v.GetString("pool.asset0"),
			Asset1: v.GetString("pool.asset1"),
		},
		API: APIConfig{
			Listen:      v.GetString("api.listen"),
			CORSOrigins: v.GetStringSlice("api.cors-origins"),
			RateLimit:   cast.ToFloat64(v.Get("api.rate-limit")),
			RateBurst:   v.GetInt("api.rate-burst"),
		},
		Ops: OpsConfig{
			Listen: v.GetString("ops.listen"),
		},
		Auth: AuthConfig{
			Enabled:      v.GetBool("auth.enabled"),
			Username:     v.GetString("auth.username"),
			PasswordHash: v.GetString("auth.password-hash"),
			JWTSecret:    v.GetString("auth.jwt-secret"),
			TokenTTL:     v.GetDuration("auth.token-ttl"),
		},
		Journal: JournalConfig{
			Mode: v.GetString("journal.mode"),
			Path: v.GetString("journal.path"),
			DSN:  v.GetString("journal.dsn"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("telemetry.enabled"),
			Endpoint:    v.GetString("telemetry.endpoint"),
			SampleRatio: cast.ToFloat64(v.Get("telemetry.sample-ratio")),
			Insecure:    v.GetBool("telemetry.insecure"),
		},
	}

	// Relative paths resolve against the home directory.
	if cfg.DB.Dir != "" && !filepath.IsAbs(cfg.DB.Dir) {
		cfg.DB.Dir = filepath.Join(cfg.Home, cfg.DB.Dir)
	}
	if cfg.Journal.Path != "" && !filepath.IsAbs(cfg.Journal.Path) {
		cfg.Journal.Path = filepath.Join(cfg.Home, cfg.Journal.Path)
	}

	return cfg, nil
}

// Validate checks the configuration before the daemon starts.
func (c Config) Validate() error {
	switch c.DB.Backend {
	case state.BackendMemory, state.BackendLevelDB:
	default:
		return fmt.Errorf("db.backend %q: want %s or %s", c.DB.Backend, state.BackendMemory, state.BackendLevelDB)
	}

	if c.Pool.Asset0 == "" || c.Pool.Asset1 == "" {
		return fmt.Errorf("pool assets must be set")
	}
	if c.Pool.Asset0 == c.Pool.Asset1 {
		return fmt.Errorf("pool assets must differ, both %q", c.Pool.Asset0)
	}
	if strings.Contains(c.Pool.Asset0, "/") || strings.Contains(c.Pool.Asset1, "/") {
		return fmt.Errorf("pool assets must not contain '/'")
	}

	if c.API.Listen == "" {
		return fmt.Errorf("api.listen must be set")
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate-limit must be positive, got %v", c.API.RateLimit)
	}
	if c.API.RateBurst <= 0 {
		return fmt.Errorf("api.rate-burst must be positive, got %d", c.API.RateBurst)
	}

	if c.Auth.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt-secret must be set when auth is enabled")
		}
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("auth.password-hash must be set when auth is enabled; generate one with 'pairpoold auth hash-password'")
		}
		if c.Auth.Username == "" {
			return fmt.Errorf("auth.username must be set when auth is enabled")
		}
		if c.Auth.TokenTTL <= 0 {
			return fmt.Errorf("auth.token-ttl must be positive, got %v", c.Auth.TokenTTL)
		}
	}

	switch c.Journal.Mode {
	case JournalOff:
	case JournalJSONL:
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path must be set for jsonl journaling")
		}
	case JournalPostgres:
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal.dsn must be set for postgres journaling")
		}
	default:
		return fmt.Errorf("journal.mode %q: want %s, %s or %s", c.Journal.Mode, JournalOff, JournalJSONL, JournalPostgres)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample-ratio %v out of [0, 1]", c.Telemetry.SampleRatio)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint must be set when telemetry is enabled")
	}

	return nil
}

// WriteDefault writes a config.yaml with defaults plus any overrides already
// applied to cfg, refusing to clobber an existing file.
func WriteDefault(cfg Config) (string, error) {
	if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
		return "", fmt.Errorf("create home: %w", err)
	}

	path := filepath.Join(cfg.Home, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}

	v := viper.New()
	setDefaults(v, cfg.Home)
	v.Set("pool.asset0", cfg.Pool.Asset0)
	v.Set("pool.asset1", cfg.Pool.Asset1)
	v.Set("db.backend", cfg.DB.Backend)
	v.Set("auth.enabled", cfg.Auth.Enabled)
	if cfg.Auth.JWTSecret != "" {
		v.Set("auth.jwt-secret", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.PasswordHash != "" {
		v.Set("auth.password-hash", cfg.Auth.PasswordHash)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
