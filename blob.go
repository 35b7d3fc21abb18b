package sealnote

import (
	"time"

	"github.com/google/uuid"

	"github.com/sealnote/client-go/internal/archive"
	"github.com/sealnote/client-go/internal/crypto"
)

// EncryptedBlob is the output of one AES-256-GCM encryption. AuthTag is the
// trailing 16 bytes of the GCM output and Ciphertext everything before it.
// A blob is never mutated; a new encryption produces a new blob.
type EncryptedBlob struct {
	IV         []byte
	AuthTag    []byte
	Ciphertext []byte
}

func blobFrom(b *crypto.Blob) EncryptedBlob {
	return EncryptedBlob{IV: b.IV, AuthTag: b.AuthTag, Ciphertext: b.Ciphertext}
}

func (b *EncryptedBlob) blob() *crypto.Blob {
	if b == nil {
		return nil
	}
	return &crypto.Blob{IV: b.IV, AuthTag: b.AuthTag, Ciphertext: b.Ciphertext}
}

// ContentRecord is a stored note. Name and timestamps are plaintext; the
// cipher fields are independently base64url-encoded.
type ContentRecord = archive.Record

// EncryptBlob encrypts content under key with a fresh random IV. Encrypting
// the same content twice yields different blobs.
func EncryptBlob(content []byte, key Key) (*EncryptedBlob, error) {
	if key == nil || len(key.keyBytes()) != crypto.AESKeySize {
		return nil, ErrInvalidKey
	}

	b, err := crypto.Seal(key.keyBytes(), content)
	if err != nil {
		return nil, wrapCryptoError("encrypt", "content", err)
	}
	out := blobFrom(b)
	return &out, nil
}

// EncryptText encrypts the UTF-8 encoding of text.
func EncryptText(text string, key Key) (*EncryptedBlob, error) {
	content, err := crypto.EncodeText(text)
	if err != nil {
		return nil, &EncodingError{Field: "text", Err: err}
	}
	return EncryptBlob(content, key)
}

// DecryptBlob authenticates and decrypts b. On any failure no plaintext is
// returned: a wrong key and a modified IV, tag or ciphertext all yield an
// IntegrityError.
func DecryptBlob(b *EncryptedBlob, key Key) ([]byte, error) {
	if key == nil || len(key.keyBytes()) != crypto.AESKeySize {
		return nil, ErrInvalidKey
	}

	plaintext, err := crypto.DecryptAES(key.keyBytes(), b.blob())
	if err != nil {
		return nil, wrapCryptoError("decrypt", "content", err)
	}
	return plaintext, nil
}

// DecryptText decrypts b and decodes the plaintext as UTF-8. A leading byte
// order mark is dropped and invalid sequences become U+FFFD.
func DecryptText(b *EncryptedBlob, key Key) (string, error) {
	plaintext, err := DecryptBlob(b, key)
	if err != nil {
		return "", err
	}
	text, err := crypto.DecodeText(plaintext)
	if err != nil {
		return "", &EncodingError{Field: "text", Err: err}
	}
	return text, nil
}

// RecordBlob decodes the cipher fields of r.
func RecordBlob(r *ContentRecord) (*EncryptedBlob, error) {
	b, err := r.Blob()
	if err != nil {
		return nil, wrapCryptoError("decode", "record "+r.ID, err)
	}
	out := blobFrom(b)
	return &out, nil
}

// NewContentRecord encrypts text into a new record with a random id.
func NewContentRecord(name, text string, key Key) (*ContentRecord, error) {
	return newContentRecord(name, text, key, time.Now)
}

func newContentRecord(name, text string, key Key, now func() time.Time) (*ContentRecord, error) {
	b, err := EncryptText(text, key)
	if err != nil {
		return nil, err
	}

	ts := now().UTC()
	r := &ContentRecord{
		ID:      uuid.NewString(),
		Name:    name,
		Created: ts,
		Updated: ts,
	}
	r.SetBlob(b.blob())
	return r, nil
}

// ReviseRecord returns a copy of r holding text encrypted under a fresh IV.
// r itself is left untouched.
func ReviseRecord(r *ContentRecord, text string, key Key) (*ContentRecord, error) {
	return reviseRecord(r, text, key, time.Now)
}

func reviseRecord(r *ContentRecord, text string, key Key, now func() time.Time) (*ContentRecord, error) {
	b, err := EncryptText(text, key)
	if err != nil {
		return nil, err
	}

	revised := *r
	revised.Updated = now().UTC()
	revised.SetBlob(b.blob())
	return &revised, nil
}

// OpenRecord decrypts the text of r.
func OpenRecord(r *ContentRecord, key Key) (string, error) {
	b, err := RecordBlob(r)
	if err != nil {
		return "", err
	}
	return DecryptText(b, key)
}
