// Package config loads sealnote settings from the environment, reading a
// .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds environment-driven settings shared by the client and the
// restore tool.
type Config struct {
	// SessionTTL bounds how long an unwrapped data key stays cached after
	// login. Zero keeps it until logout or process exit.
	SessionTTL time.Duration `env:"SEALNOTE_SESSION_TTL" envDefault:"0s"`
	// Workers bounds concurrent record decryption. Zero means unbounded.
	Workers int `env:"SEALNOTE_WORKERS" envDefault:"0"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SEALNOTE_LOG_LEVEL" envDefault:"warn"`
}

// Load reads the given .env files (default ".env"), ignoring missing ones,
// then parses the environment into a Config. Variables already set in the
// process environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c Config) Validate() error {
	if c.SessionTTL < 0 {
		return fmt.Errorf("SEALNOTE_SESSION_TTL must not be negative, got %v", c.SessionTTL)
	}
	if c.Workers < 0 {
		return fmt.Errorf("SEALNOTE_WORKERS must not be negative, got %d", c.Workers)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("SEALNOTE_LOG_LEVEL: unknown level %q", c.LogLevel)
}
