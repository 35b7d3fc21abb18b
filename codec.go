package sealnote

import "github.com/sealnote/client-go/internal/crypto"

// Encode returns the URL-safe, unpadded base64 form of b. It is used for
// every stored or transmitted byte value.
func Encode(b []byte) string {
	return crypto.ToBase64URL(b)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	b, err := crypto.FromBase64URL(s)
	if err != nil {
		return nil, &EncodingError{Field: "value", Err: err}
	}
	return b, nil
}
