// Package config loads application settings from defaults, an optional YAML
// file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justestif/go-song-cluster-explorer/internal/render"
)

var (
	// ErrNoSource is returned when no song source is configured.
	ErrNoSource = errors.New("no song source configured")
	// ErrUnknownSource is returned for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown song source kind")
)

// Source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

const (
	defaultAddr       = "127.0.0.1:8080"
	defaultCSV        = "data/pca_results_with_clusters.csv"
	defaultTable      = "songs"
	defaultSessionTTL = 24 * time.Hour
)

// Config holds all application settings.
type Config struct {
	Addr       string        `yaml:"addr"`
	Source     SourceConfig  `yaml:"source"`
	Recluster  int           `yaml:"recluster"`
	Log        LogConfig     `yaml:"log"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	Layout     render.Layout `yaml:"layout"`
}

// SourceConfig selects where the song table is read from.
type SourceConfig struct {
	Kind        string `yaml:"kind"`
	Path        string `yaml:"path"`
	URL         string `yaml:"url"`
	BaseURL     string `yaml:"base_url"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	Table       string `yaml:"table"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level    string `yaml:"level"`
	NoColors bool   `yaml:"no_colors"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr: defaultAddr,
		Source: SourceConfig{
			Path:  defaultCSV,
			Table: defaultTable,
		},
		Log:        LogConfig{Level: "info"},
		SessionTTL: defaultSessionTTL,
		Layout:     render.DefaultLayout(),
	}
}

// Load builds the config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	kind, err := cfg.Source.ResolveKind()
	if err != nil {
		return nil, err
	}
	cfg.Source.Kind = kind

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "ADDR")
	setString(&c.Source.Kind, "SONGS_SOURCE")
	setString(&c.Source.Path, "SONGS_CSV")
	setString(&c.Source.URL, "SONGS_URL")
	setString(&c.Source.BaseURL, "SONGS_BASE_URL")
	setString(&c.Source.DatabaseURL, "DATABASE_URL")
	setString(&c.Source.SQLitePath, "SQLITE_PATH")
	setString(&c.Source.Table, "SONGS_TABLE")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("RECLUSTER_K"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 0 {
			return fmt.Errorf("invalid RECLUSTER_K %q", v)
		}
		c.Recluster = k
	}

	if v := os.Getenv("LOG_NO_COLORS"); v != "" {
		noColors, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_NO_COLORS %q: %w", v, err)
		}
		c.Log.NoColors = noColors
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		c.SessionTTL = ttl
	}

	return nil
}

// ResolveKind returns the configured source kind. Without an explicit kind
// it picks the most specific location set: database, SQLite file, URL, then CSV path.
func (s SourceConfig) ResolveKind() (string, error) {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	switch kind {
	case SourceFile, SourceHTTP, SourcePostgres, SourceSQLite:
		return kind, nil
	case "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s.Kind)
	}

	switch {
	case s.DatabaseURL != "":
		return SourcePostgres, nil
	case s.SQLitePath != "":
		return SourceSQLite, nil
	case s.URL != "":
		return SourceHTTP, nil
	case s.Path != "":
		return SourceFile, nil
	}
	return "", ErrNoSource
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
