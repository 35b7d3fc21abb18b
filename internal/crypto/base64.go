package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ToBase64URL encodes bytes to URL-safe base64 without padding.
func ToBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64URL decodes URL-safe base64 without padding. Padded or
// standard-alphabet input is rejected.
func FromBase64URL(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}

// DecodeBase64URL is the lenient form of FromBase64URL. It accepts trailing
// '=' padding, which appears when links are pasted through tools that
// re-pad base64.
func DecodeBase64URL(s string) ([]byte, error) {
	return FromBase64URL(strings.TrimRight(s, "="))
}
