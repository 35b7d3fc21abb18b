package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// deriveShareKEK performs HKDF-SHA-512 key derivation for sealed shares.
//
// The key derivation uses:
//   - IKM (input key material): the KEM shared secret
//   - Salt: SHA-256 hash of the KEM ciphertext
//   - Info: context string || label length (4 bytes BE) || label
func deriveShareKEK(sharedSecret, ctKem, label []byte) ([]byte, error) {
	saltHash := sha256.Sum256(ctKem)

	contextBytes := []byte(ShareHKDFContext)
	labelLength := make([]byte, 4)
	binary.BigEndian.PutUint32(labelLength, uint32(len(label)))

	info := make([]byte, 0, len(contextBytes)+4+len(label))
	info = append(info, contextBytes...)
	info = append(info, labelLength...)
	info = append(info, label...)

	reader := hkdf.New(sha512.New, sharedSecret, saltHash[:], info)
	key := make([]byte, AESKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
