package sealnote

import "github.com/sealnote/client-go/internal/crypto"

// WrappedDataKey is a DataKey encrypted under a MasterKey. Its String form
// is what the account stores.
type WrappedDataKey struct {
	EncryptedBlob
}

// String returns the storage form: the base64url encoding of a JSON object
// holding the iv, authTag and ct fields, each base64url.
func (w *WrappedDataKey) String() string {
	return crypto.EncodeWrappedKey(w.blob())
}

// MarshalText implements encoding.TextMarshaler.
func (w WrappedDataKey) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WrappedDataKey) UnmarshalText(text []byte) error {
	parsed, err := ParseWrappedDataKey(string(text))
	if err != nil {
		return err
	}
	*w = *parsed
	return nil
}

// ParseWrappedDataKey reverses WrappedDataKey.String.
func ParseWrappedDataKey(s string) (*WrappedDataKey, error) {
	b, err := crypto.DecodeWrappedKey(s)
	if err != nil {
		return nil, &EncodingError{Field: "wrapped key", Err: err}
	}
	return &WrappedDataKey{EncryptedBlob: blobFrom(b)}, nil
}

// WrapDataKey encrypts dataKey under masterKey with a fresh IV.
func WrapDataKey(dataKey *DataKey, masterKey *MasterKey) (*WrappedDataKey, error) {
	if len(dataKey.keyBytes()) != crypto.AESKeySize || len(masterKey.keyBytes()) != crypto.AESKeySize {
		return nil, ErrInvalidKey
	}

	b, err := crypto.WrapKey(dataKey.keyBytes(), masterKey.keyBytes())
	if err != nil {
		return nil, wrapCryptoError("wrap", "data key", err)
	}
	return &WrappedDataKey{EncryptedBlob: blobFrom(b)}, nil
}

// UnwrapDataKey recovers the DataKey. A wrong master key (and so a wrong
// password) and a tampered wrapped key both yield an IntegrityError; the two
// cases are indistinguishable.
func UnwrapDataKey(wrapped *WrappedDataKey, masterKey *MasterKey) (*DataKey, error) {
	if len(masterKey.keyBytes()) != crypto.AESKeySize {
		return nil, ErrInvalidKey
	}
	if wrapped == nil {
		return nil, &IntegrityError{Op: "unwrap"}
	}

	b, err := crypto.UnwrapKey(wrapped.blob(), masterKey.keyBytes())
	if err != nil {
		return nil, &IntegrityError{Op: "unwrap"}
	}
	return &DataKey{b: b}, nil
}
