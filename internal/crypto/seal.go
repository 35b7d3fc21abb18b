package crypto

import (
	"fmt"
)

// SealedKey is a symmetric key sealed to a recipient's ML-KEM-768 public key.
type SealedKey struct {
	// CtKem is the ML-KEM-768 ciphertext.
	CtKem []byte
	// Label is bound into the key derivation, typically the shared record id.
	Label []byte
	// Blob is the AES-256-GCM encryption of the key under the derived KEK.
	Blob *Blob
}

// SealKey seals a 256-bit key to publicKey. Each call performs a fresh
// encapsulation.
func SealKey(publicKey, key, label []byte) (*SealedKey, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	ctKem, shared, err := Encapsulate(publicKey)
	if err != nil {
		return nil, fmt.Errorf("encapsulate: %w", err)
	}
	defer Zero(shared)

	kek, err := deriveShareKEK(shared, ctKem, label)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer Zero(kek)

	blob, err := Seal(kek, key)
	if err != nil {
		return nil, err
	}

	return &SealedKey{CtKem: ctKem, Label: append([]byte(nil), label...), Blob: blob}, nil
}

// OpenKey recovers a key sealed with SealKey.
//
// The decryption process:
//  1. ML-KEM-768 decapsulation to recover the shared secret
//  2. HKDF-SHA-512 key derivation using the shared secret, label, and KEM ciphertext
//  3. AES-256-GCM decryption of the sealed key
func OpenKey(s *SealedKey, keypair *Keypair) ([]byte, error) {
	if s == nil || keypair == nil {
		return nil, ErrDecryptionFailed
	}

	shared, err := keypair.Decapsulate(s.CtKem)
	if err != nil {
		return nil, fmt.Errorf("decapsulate: %w", err)
	}
	defer Zero(shared)

	kek, err := deriveShareKEK(shared, s.CtKem, s.Label)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer Zero(kek)

	key, err := DecryptAES(kek, s.Blob)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(key) != AESKeySize {
		return nil, ErrDecryptionFailed
	}
	return key, nil
}
