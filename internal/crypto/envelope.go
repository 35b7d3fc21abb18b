package crypto

import (
	"encoding/json"
	"fmt"
)

// WrapKey encrypts the raw bytes of a data key under a master key with a
// fresh nonce.
func WrapKey(dataKey, masterKey []byte) (*Blob, error) {
	if len(dataKey) != AESKeySize {
		return nil, fmt.Errorf("%w: data key is %d bytes", ErrInvalidKeySize, len(dataKey))
	}
	return Seal(masterKey, dataKey)
}

// UnwrapKey decrypts a wrapped data key. A wrong master key and a corrupted
// blob both yield ErrDecryptionFailed.
func UnwrapKey(wrapped *Blob, masterKey []byte) ([]byte, error) {
	raw, err := DecryptAES(masterKey, wrapped)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(raw) != AESKeySize {
		Zero(raw)
		return nil, ErrDecryptionFailed
	}
	return raw, nil
}

// wrappedKeyJSON is the serialized triple inside a wrapped key string.
type wrappedKeyJSON struct {
	IV      string `json:"iv"`
	AuthTag string `json:"authTag"`
	CT      string `json:"ct"`
}

// EncodeWrappedKey serializes a wrapped key as a single opaque string:
// base64url(JSON{iv, authTag, ct}) with each member base64url-encoded.
func EncodeWrappedKey(b *Blob) string {
	// Marshal of three strings cannot fail.
	data, _ := json.Marshal(wrappedKeyJSON{
		IV:      ToBase64URL(b.IV),
		AuthTag: ToBase64URL(b.AuthTag),
		CT:      ToBase64URL(b.Ciphertext),
	})
	return ToBase64URL(data)
}

// DecodeWrappedKey parses a string produced by EncodeWrappedKey.
func DecodeWrappedKey(s string) (*Blob, error) {
	data, err := FromBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("decode wrapped key: %w", err)
	}

	var w wrappedKeyJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: wrapped key: %v", ErrInvalidEncoding, err)
	}

	return DecodeBlob(w.IV, w.AuthTag, w.CT)
}

// DecodeBlob decodes the three independently encoded parts of a blob.
func DecodeBlob(iv, authTag, ciphertext string) (*Blob, error) {
	ivBytes, err := FromBase64URL(iv)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}

	tag, err := FromBase64URL(authTag)
	if err != nil {
		return nil, fmt.Errorf("decode authTag: %w", err)
	}

	ct, err := FromBase64URL(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	return &Blob{IV: ivBytes, AuthTag: tag, Ciphertext: ct}, nil
}
