package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Blob is the unit of authenticated encryption. The GCM output
// ciphertext||tag is stored split: AuthTag holds the trailing 16 bytes and
// Ciphertext the remainder. Every reader and writer of blobs relies on this
// split.
type Blob struct {
	IV         []byte
	AuthTag    []byte
	Ciphertext []byte
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptAES encrypts plaintext with AES-256-GCM under the given nonce and
// returns the blob with the tag split off.
func EncryptAES(key, plaintext, nonce []byte) (*Blob, error) {
	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - AESTagSize

	iv := make([]byte, AESNonceSize)
	copy(iv, nonce)
	return &Blob{
		IV:         iv,
		AuthTag:    sealed[split:],
		Ciphertext: sealed[:split:split],
	}, nil
}

// DecryptAES reassembles ciphertext||tag and decrypts it with AES-256-GCM.
// Any authentication failure is reported as ErrDecryptionFailed and no
// plaintext is returned.
func DecryptAES(key []byte, b *Blob) ([]byte, error) {
	if b == nil {
		return nil, ErrDecryptionFailed
	}
	if len(b.IV) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(b.IV), AESNonceSize)
	}
	if len(b.AuthTag) != AESTagSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidTagSize, len(b.AuthTag), AESTagSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	joined := make([]byte, 0, len(b.Ciphertext)+AESTagSize)
	joined = append(joined, b.Ciphertext...)
	joined = append(joined, b.AuthTag...)

	plaintext, err := gcm.Open(nil, b.IV, joined, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// Seal encrypts plaintext under key with a fresh random nonce.
func Seal(key, plaintext []byte) (*Blob, error) {
	nonce, err := RandomBytes(AESNonceSize)
	if err != nil {
		return nil, err
	}
	return EncryptAES(key, plaintext, nonce)
}
