package sealnote

import (
	"crypto/subtle"
	"errors"

	"github.com/sealnote/client-go/internal/crypto"
)

var errMasterKeyNotSerializable = errors.New("sealnote: master key cannot be serialized")

// Key is a 256-bit symmetric key usable with EncryptBlob and DecryptBlob.
// It is implemented by *MasterKey, *DataKey and *ShareKey only.
type Key interface {
	keyBytes() []byte
}

// MasterKey is derived from a password and salt and only ever wraps or
// unwraps a DataKey. It has no export method; it cannot be marshaled, and
// printing it shows a redacted placeholder.
type MasterKey struct {
	b []byte
}

func (k *MasterKey) keyBytes() []byte {
	if k == nil {
		return nil
	}
	return k.b
}

// Destroy wipes the key material. The key is unusable afterwards.
func (k *MasterKey) Destroy() {
	if k == nil {
		return
	}
	crypto.Zero(k.b)
	k.b = nil
}

func (MasterKey) String() string   { return "MasterKey(redacted)" }
func (MasterKey) GoString() string { return "MasterKey(redacted)" }

// MarshalJSON always fails.
func (MasterKey) MarshalJSON() ([]byte, error) { return nil, errMasterKeyNotSerializable }

// MarshalText always fails.
func (MasterKey) MarshalText() ([]byte, error) { return nil, errMasterKeyNotSerializable }

// DataKey is the account's content-encrypting key. It is generated once at
// signup and is only reachable through UnwrapDataKey or a session. Unlike a
// MasterKey it is exportable, so it can be wrapped and cached.
type DataKey struct {
	b []byte
}

func (k *DataKey) keyBytes() []byte {
	if k == nil {
		return nil
	}
	return k.b
}

// GenerateDataKey returns a fresh random DataKey.
func GenerateDataKey() (*DataKey, error) {
	b, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}
	return &DataKey{b: b}, nil
}

// Export returns the key's raw bytes as a Codec string.
func (k *DataKey) Export() string {
	return crypto.ToBase64URL(k.keyBytes())
}

// Equal reports whether both keys hold the same bytes, in constant time.
func (k *DataKey) Equal(other *DataKey) bool {
	a, b := k.keyBytes(), other.keyBytes()
	return len(a) == crypto.AESKeySize && subtle.ConstantTimeCompare(a, b) == 1
}

// Destroy wipes the key material. The key is unusable afterwards.
func (k *DataKey) Destroy() {
	if k == nil {
		return
	}
	crypto.Zero(k.b)
	k.b = nil
}

func (DataKey) String() string   { return "DataKey(redacted)" }
func (DataKey) GoString() string { return "DataKey(redacted)" }

// ExportKeyToString returns the Codec form of a DataKey.
func ExportKeyToString(k *DataKey) string {
	return k.Export()
}

// ImportKeyFromString reverses ExportKeyToString. The imported key behaves
// identically to the exported one.
func ImportKeyFromString(s string) (*DataKey, error) {
	b, err := importKeyBytes(s, crypto.FromBase64URL)
	if err != nil {
		return nil, &EncodingError{Field: "data key", Err: err}
	}
	return &DataKey{b: b}, nil
}

func importKeyBytes(s string, decode func(string) ([]byte, error)) ([]byte, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != crypto.AESKeySize {
		crypto.Zero(b)
		return nil, crypto.ErrInvalidKeySize
	}
	return b, nil
}
