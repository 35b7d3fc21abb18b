package sealnote

import (
	"io"
	"log/slog"
	"time"

	"github.com/sealnote/client-go/internal/crypto"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	logger     *slog.Logger
	sessionTTL time.Duration
	workers    int

	// kdfIterations is only lowered by tests.
	kdfIterations int
	now           func() time.Time
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		kdfIterations: crypto.KDFIterations,
		now:           time.Now,
	}
}

// Option configures the client.
type Option func(*clientConfig)

// WithLogger sets the structured logger. Passwords, keys and plaintext are
// never logged. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSessionTTL bounds how long a session keeps the unwrapped data key
// after login. Zero, the default, keeps it until Logout.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		if ttl >= 0 {
			c.sessionTTL = ttl
		}
	}
}

// WithWorkers bounds the number of records decrypted concurrently by batch
// operations. Zero, the default, means unbounded.
func WithWorkers(n int) Option {
	return func(c *clientConfig) {
		if n >= 0 {
			c.workers = n
		}
	}
}

func withKDFIterations(n int) Option {
	return func(c *clientConfig) {
		c.kdfIterations = n
	}
}

func withClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		c.now = now
	}
}
