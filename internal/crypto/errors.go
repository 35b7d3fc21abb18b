package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when AEAD authentication fails. It is
	// the same error for a wrong key and for tampered input.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when an AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidTagSize is returned when an authentication tag is not 16 bytes.
	ErrInvalidTagSize = errors.New("invalid tag size")

	// ErrInvalidSalt is returned when a KDF salt has the wrong size.
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrInvalidIterations is returned when the KDF round count is not positive.
	ErrInvalidIterations = errors.New("invalid iteration count")

	// ErrInvalidEncoding is returned when a base64url or JSON field cannot be decoded.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when the KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")
)
