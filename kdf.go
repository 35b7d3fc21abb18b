package sealnote

import (
	"context"

	"github.com/sealnote/client-go/internal/crypto"
)

// KDFIterations is the PBKDF2-HMAC-SHA-256 round count.
const KDFIterations = crypto.KDFIterations

// SaltSize is the size of an account salt in bytes.
const SaltSize = crypto.SaltSize

// RandomSalt returns a fresh 16-byte salt.
func RandomSalt() ([]byte, error) {
	return crypto.RandomSalt()
}

// DeriveMasterKey derives the MasterKey for password and salt. Identical
// inputs always yield the same key. Any password is accepted; a wrong one
// only shows up later as an IntegrityError from UnwrapDataKey. A malformed
// salt yields a KeyDerivationError.
func DeriveMasterKey(ctx context.Context, password, salt []byte) (*MasterKey, error) {
	return deriveMasterKey(ctx, password, salt, crypto.KDFIterations)
}

func deriveMasterKey(ctx context.Context, password, salt []byte, iterations int) (*MasterKey, error) {
	b, err := crypto.DeriveMasterKeyContext(ctx, password, salt, iterations)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, wrapCryptoError("derive", "salt", err)
	}
	return &MasterKey{b: b}, nil
}
