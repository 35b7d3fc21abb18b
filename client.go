package sealnote

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sealnote/client-go/internal/config"
	"github.com/sealnote/client-go/internal/crypto"
)

// Account is the envelope material the server stores for a user. Both fields
// are opaque to the server; neither lets it decrypt anything.
type Account struct {
	// EncryptionSalt is the Codec form of the 16-byte KDF salt.
	EncryptionSalt string `json:"encryptionSalt"`
	// WrappedKey is the storage form of the WrappedDataKey.
	WrappedKey string `json:"wrappedKey"`
}

// Client performs account key operations. It holds no key material itself;
// keys live in the Sessions it returns.
type Client struct {
	cfg *clientConfig
}

// New creates a Client.
func New(opts ...Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{cfg: cfg}
}

// NewFromEnv creates a Client configured from SEALNOTE_* environment
// variables, reading .env first if present. opts are applied afterwards and
// take precedence.
func NewFromEnv(opts ...Option) (*Client, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := env.SlogLevel()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithSessionTTL(env.SessionTTL),
		WithWorkers(env.Workers),
		WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))),
	}
	return New(append(base, opts...)...), nil
}

// Signup creates the key material for a new account: a random salt, a
// random DataKey, and that DataKey wrapped under the password-derived
// MasterKey. It returns the Account to store and a logged-in Session.
func (c *Client) Signup(ctx context.Context, password []byte) (*Account, *Session, error) {
	salt, err := crypto.RandomSalt()
	if err != nil {
		return nil, nil, err
	}

	dataKey, err := GenerateDataKey()
	if err != nil {
		return nil, nil, err
	}
	defer dataKey.Destroy()

	wrapped, err := c.wrapForPassword(ctx, password, salt, dataKey)
	if err != nil {
		return nil, nil, err
	}

	account := &Account{
		EncryptionSalt: crypto.ToBase64URL(salt),
		WrappedKey:     wrapped.String(),
	}

	session, err := newSession(account, dataKey, c.cfg)
	if err != nil {
		return nil, nil, err
	}
	c.cfg.logger.Info("account created")
	return account, session, nil
}

// Login unlocks the account's DataKey with password and caches it in a new
// Session. A wrong password yields an IntegrityError.
func (c *Client) Login(ctx context.Context, password []byte, account *Account) (*Session, error) {
	dataKey, err := c.Unlock(ctx, password, account)
	if err != nil {
		c.cfg.logger.Warn("login failed", errAttr(err))
		return nil, err
	}
	defer dataKey.Destroy()

	session, err := newSession(account, dataKey, c.cfg)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Info("session opened", slog.Duration("ttl", c.cfg.sessionTTL))
	return session, nil
}

// Unlock derives the MasterKey and unwraps the account's DataKey without
// opening a session. The caller should Destroy the key when done.
func (c *Client) Unlock(ctx context.Context, password []byte, account *Account) (*DataKey, error) {
	if account == nil {
		return nil, &EncodingError{Field: "account"}
	}

	salt, err := crypto.FromBase64URL(account.EncryptionSalt)
	if err != nil {
		return nil, &EncodingError{Field: "encryption salt", Err: err}
	}
	wrapped, err := ParseWrappedDataKey(account.WrappedKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	masterKey, err := deriveMasterKey(ctx, password, salt, c.cfg.kdfIterations)
	if err != nil {
		return nil, err
	}
	defer masterKey.Destroy()
	c.cfg.logger.Debug("master key derived", slog.Duration("duration", time.Since(start)))

	return UnwrapDataKey(wrapped, masterKey)
}

// ChangePassword re-wraps the same DataKey under a MasterKey derived from
// newPassword and a fresh salt. Content records are not touched. The caller
// must replace both stored Account fields together.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword []byte, account *Account) (*Account, error) {
	dataKey, err := c.Unlock(ctx, oldPassword, account)
	if err != nil {
		return nil, err
	}
	defer dataKey.Destroy()

	salt, err := crypto.RandomSalt()
	if err != nil {
		return nil, err
	}

	wrapped, err := c.wrapForPassword(ctx, newPassword, salt, dataKey)
	if err != nil {
		return nil, err
	}

	c.cfg.logger.Info("password changed")
	return &Account{
		EncryptionSalt: crypto.ToBase64URL(salt),
		WrappedKey:     wrapped.String(),
	}, nil
}

func (c *Client) wrapForPassword(ctx context.Context, password, salt []byte, dataKey *DataKey) (*WrappedDataKey, error) {
	masterKey, err := deriveMasterKey(ctx, password, salt, c.cfg.kdfIterations)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	defer masterKey.Destroy()

	return WrapDataKey(dataKey, masterKey)
}
