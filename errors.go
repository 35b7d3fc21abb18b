package sealnote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sealnote/client-go/internal/archive"
	"github.com/sealnote/client-go/internal/crypto"
	"github.com/sealnote/client-go/internal/restore"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrKeyDerivation is returned when the salt or KDF parameters are
	// malformed. The password itself never causes this error.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrIntegrity is returned when authenticated decryption fails. A wrong
	// key and tampered ciphertext produce the same error.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrEncoding is returned when a stored base64url or JSON value is malformed.
	ErrEncoding = errors.New("malformed encoding")

	// ErrPartialBatch is returned when some items of a batch failed.
	ErrPartialBatch = errors.New("some batch items failed")

	// ErrWrongPasswordOrCorrupted is the single user-facing error for an
	// archive that cannot be unlocked.
	ErrWrongPasswordOrCorrupted = restore.ErrUnlockFailed

	// ErrSessionKeyAbsent is returned when the session holds no data key,
	// either after logout or because the cache lifetime expired. The caller
	// must ask for the password again.
	ErrSessionKeyAbsent = errors.New("no data key in session: re-authenticate")

	// ErrInvalidArchive is returned when an archive document is structurally invalid.
	ErrInvalidArchive = archive.ErrInvalidArchive

	// ErrInvalidKey is returned when a key value is nil or destroyed.
	ErrInvalidKey = errors.New("invalid key")
)

// SealnoteError is implemented by all typed errors of this package.
type SealnoteError interface {
	error
	SealnoteError() // marker method
}

// KeyDerivationError reports malformed salt or KDF parameters.
type KeyDerivationError struct {
	Reason string
	Err    error
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf("key derivation failed: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *KeyDerivationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyDerivationError) Is(target error) bool {
	return target == ErrKeyDerivation
}

// SealnoteError implements the SealnoteError interface.
func (e *KeyDerivationError) SealnoteError() {}

// IntegrityError reports an authentication failure. Op names the operation
// ("unwrap", "decrypt"); the message never carries the underlying cause.
type IntegrityError struct {
	Op string
}

func (e *IntegrityError) Error() string {
	if e.Op == "" {
		return ErrIntegrity.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, ErrIntegrity.Error())
}

// Is implements errors.Is for sentinel error matching.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// SealnoteError implements the SealnoteError interface.
func (e *IntegrityError) SealnoteError() {}

// EncodingError reports a malformed stored value. It is only expected from
// corrupted storage; values produced by this package always decode.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Field)
}

// Unwrap returns the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// SealnoteError implements the SealnoteError interface.
func (e *EncodingError) SealnoteError() {}

// PartialBatchError lists the items of a batch that failed. The other items
// completed normally.
type PartialBatchError struct {
	Total  int
	Failed []string // ids of failed items
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d of %d items failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}

// Is implements errors.Is for sentinel error matching.
func (e *PartialBatchError) Is(target error) bool {
	return target == ErrPartialBatch
}

// SealnoteError implements the SealnoteError interface.
func (e *PartialBatchError) SealnoteError() {}

// wrapCryptoError converts internal crypto errors to public errors so that
// errors.Is() checks work with public sentinels. field names the value being
// processed and op the operation, for the error message.
func wrapCryptoError(op, field string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrInvalidEncoding):
		return &EncodingError{Field: field, Err: err}
	case errors.Is(err, crypto.ErrInvalidSalt), errors.Is(err, crypto.ErrInvalidIterations):
		return &KeyDerivationError{Reason: err.Error(), Err: err}
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrInvalidNonceSize),
		errors.Is(err, crypto.ErrInvalidTagSize):
		// A blob whose nonce or tag length was altered is tampered input.
		return &IntegrityError{Op: op}
	}

	return err
}
