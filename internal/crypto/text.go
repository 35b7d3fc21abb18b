package crypto

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// EncodeText converts note text to bytes for encryption. The encoding is
// always UTF-8; invalid sequences are replaced by U+FFFD.
func EncodeText(s string) ([]byte, error) {
	b, err := unicode.UTF8.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: text: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// DecodeText converts decrypted bytes back to text. A leading byte order mark
// is dropped and invalid sequences become U+FFFD; decoding never fails on
// content.
func DecodeText(b []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: text: %v", ErrInvalidEncoding, err)
	}
	return string(out), nil
}
