// Package config reads BabyBond settings from BABYBOND_* environment
// variables, falling back to defaults for anything unset or unparsable.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/remote"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DBPath    string
	WeekStart time.Weekday
	// Timezone is an IANA name; empty means the host's local zone.
	Timezone string
	// Seed fixes plan shuffles. Zero means a time-based seed.
	Seed        uint64
	ContentTTL  time.Duration
	Sync        SyncConfig
	MetricsAddr string
	LogLevel    slog.Level
	LogUseCases bool
}

type SyncConfig struct {
	Target        remote.Target
	URL           string
	Token         string
	Timeout       time.Duration
	KafkaBrokers  []string
	KafkaTopic    string
	PostgresURL   string
	MaxRetries    int
	Workers       int
	ProbeInterval time.Duration
}

// DefaultConfig returns the settings used when no environment is set.
// DBPath is left empty; Load resolves it under the home directory.
func DefaultConfig() Config {
	return Config{
		WeekStart:  time.Sunday,
		ContentTTL: 7 * 24 * time.Hour,
		Sync: SyncConfig{
			Target:        remote.TargetLog,
			Timeout:       5 * time.Second,
			KafkaBrokers:  []string{"localhost:9092"},
			KafkaTopic:    "babybond.mutations",
			MaxRetries:    3,
			Workers:       4,
			ProbeInterval: 30 * time.Second,
		},
		LogLevel: slog.LevelInfo,
	}
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = getEnv("BABYBOND_DB", "")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".babybond", "babybond.db")
	}

	if v := getEnv("BABYBOND_WEEK_START", ""); v != "" {
		day, err := ParseWeekday(v)
		if err != nil {
			return cfg, err
		}
		cfg.WeekStart = day
	}
	cfg.Timezone = getEnv("BABYBOND_TZ", cfg.Timezone)
	if v := getEnv("BABYBOND_SEED", ""); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: BABYBOND_SEED %q", ErrInvalidConfig, v)
		}
		cfg.Seed = seed
	}
	cfg.ContentTTL = getDurationEnv("BABYBOND_CONTENT_TTL", cfg.ContentTTL)

	cfg.Sync.Target = remote.Target(strings.ToLower(getEnv("BABYBOND_SYNC_TARGET", string(cfg.Sync.Target))))
	cfg.Sync.URL = getEnv("BABYBOND_SYNC_URL", cfg.Sync.URL)
	cfg.Sync.Token = getEnv("BABYBOND_SYNC_TOKEN", cfg.Sync.Token)
	cfg.Sync.Timeout = getDurationEnv("BABYBOND_SYNC_TIMEOUT", cfg.Sync.Timeout)
	if v := getEnv("BABYBOND_KAFKA_BROKERS", ""); v != "" {
		cfg.Sync.KafkaBrokers = splitAndTrim(v)
	}
	cfg.Sync.KafkaTopic = getEnv("BABYBOND_KAFKA_TOPIC", cfg.Sync.KafkaTopic)
	cfg.Sync.PostgresURL = getEnv("BABYBOND_POSTGRES_URL", cfg.Sync.PostgresURL)
	cfg.Sync.MaxRetries = getIntEnv("BABYBOND_SYNC_MAX_RETRIES", cfg.Sync.MaxRetries)
	cfg.Sync.Workers = getIntEnv("BABYBOND_SYNC_WORKERS", cfg.Sync.Workers)
	cfg.Sync.ProbeInterval = getDurationEnv("BABYBOND_SYNC_PROBE_INTERVAL", cfg.Sync.ProbeInterval)

	cfg.MetricsAddr = getEnv("BABYBOND_METRICS_ADDRESS", cfg.MetricsAddr)
	if v := getEnv("BABYBOND_LOG_LEVEL", ""); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("%w: BABYBOND_LOG_LEVEL %q", ErrInvalidConfig, v)
		}
	}
	cfg.LogUseCases = getBoolEnv("BABYBOND_LOG_USE_CASES", cfg.LogUseCases)

	return cfg, cfg.Validate()
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.ContentTTL <= 0 {
		errs = append(errs, fmt.Errorf("content TTL %s must be positive", c.ContentTTL))
	}
	if !c.Sync.Target.Valid() {
		errs = append(errs, fmt.Errorf("unknown sync target %q", c.Sync.Target))
	}
	switch c.Sync.Target {
	case remote.TargetHTTP:
		if c.Sync.URL == "" {
			errs = append(errs, errors.New("http sync target needs BABYBOND_SYNC_URL"))
		}
	case remote.TargetKafka:
		if len(c.Sync.KafkaBrokers) == 0 || c.Sync.KafkaTopic == "" {
			errs = append(errs, errors.New("kafka sync target needs brokers and a topic"))
		}
	case remote.TargetPostgres:
		if c.Sync.PostgresURL == "" {
			errs = append(errs, errors.New("postgres sync target needs BABYBOND_POSTGRES_URL"))
		}
	}
	if c.Sync.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("sync timeout %s must be positive", c.Sync.Timeout))
	}
	if c.Sync.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("sync max retries %d must be at least 1", c.Sync.MaxRetries))
	}
	if c.Sync.Workers < 1 {
		errs = append(errs, fmt.Errorf("sync workers %d must be at least 1", c.Sync.Workers))
	}
	if c.Sync.ProbeInterval <= 0 {
		errs = append(errs, fmt.Errorf("probe interval %s must be positive", c.Sync.ProbeInterval))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Location resolves Timezone, defaulting to time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, s)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
