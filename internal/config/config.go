package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Local store kinds
const (
	LocalSQLite = "sqlite"
	LocalMongo  = "mongo"
	LocalMemory = "memory"
)

// Config is the server configuration, read from the environment
type Config struct {
	Port     string `env:"PORT"      envDefault:"7521"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// With LOCAL_STORE=mongo each collection is a single document capped at
	// 16 MiB, and without a remote backend photos are stored inline in the
	// memories document, so only a few photos fit. Prefer sqlite offline.
	LocalStore    string `env:"LOCAL_STORE"      envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH"      envDefault:"datewheel.db"`
	MongoURI      string `env:"MONGODB_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"datewheel"`

	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_ANON_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"memories"`
	DatabaseURL    string `env:"DATABASE_URL"`

	BootstrapTimeout time.Duration `env:"BOOTSTRAP_TIMEOUT" envDefault:"10s"`
	RemoteTimeout    time.Duration `env:"REMOTE_TIMEOUT"    envDefault:"8s"`
	SpinDuration     time.Duration `env:"SPIN_DURATION"     envDefault:"4s"`
	MaxPhotoBytes    int64         `env:"MAX_PHOTO_BYTES"   envDefault:"5242880"`
	SessionTTL       time.Duration `env:"SESSION_TTL"       envDefault:"12h"`
}

// Load reads an optional .env file, then the environment
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LocalStore = strings.ToLower(strings.TrimSpace(cfg.LocalStore))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LocalStore {
	case LocalSQLite, LocalMongo, LocalMemory:
	default:
		return fmt.Errorf("LOCAL_STORE must be sqlite, mongo or memory, got %q", c.LocalStore)
	}
	if (c.SupabaseURL == "") != (c.SupabaseKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set together")
	}
	if c.SupabaseURL != "" && c.DatabaseURL != "" {
		return fmt.Errorf("set either SUPABASE_URL or DATABASE_URL, not both")
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be positive")
	}
	return nil
}

// RemoteKind names the configured remote backend, or "" for local-only mode
func (c Config) RemoteKind() string {
	switch {
	case c.SupabaseURL != "":
		return "supabase"
	case c.DatabaseURL != "":
		return "postgres"
	default:
		return ""
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
