package crypto

import (
	"context"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveMasterKey runs PBKDF2-HMAC-SHA-256 over password and salt and
// returns a 256-bit key. The same inputs always produce the same key. Any
// password, including an empty one, is accepted.
func DeriveMasterKey(password, salt []byte, iterations int) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	return pbkdf2.Key(password, salt, iterations, AESKeySize, sha256.New), nil
}

// RandomSalt returns a fresh 16-byte KDF salt.
func RandomSalt() ([]byte, error) {
	return RandomBytes(SaltSize)
}

// DeriveMasterKeyContext is DeriveMasterKey that stops waiting when ctx is
// done. PBKDF2 itself cannot be interrupted; an abandoned derivation finishes
// in the background and its result is wiped.
func DeriveMasterKeyContext(ctx context.Context, password, salt []byte, iterations int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		key, err := DeriveMasterKey(password, salt, iterations)
		done <- result{key, err}
	}()

	select {
	case r := <-done:
		return r.key, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.key != nil {
				Zero(r.key)
			}
		}()
		return nil, ctx.Err()
	}
}
