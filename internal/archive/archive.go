// Package archive defines the export document: account envelope material,
// metadata and encrypted content records. The live client writes it and the
// offline restore tool reads it.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sealnote/client-go/internal/crypto"
)

// Version is the current archive format version.
const Version = 1

// ErrInvalidArchive is returned when an archive document is structurally invalid.
var ErrInvalidArchive = errors.New("invalid archive")

// Archive is a self-contained export of an account's encrypted notes.
// WARNING: anyone holding the archive can mount an offline password-guessing
// attack against it.
type Archive struct {
	// Version is the archive format version. Zero is read as 1.
	Version int `json:"version"`
	// Algs fingerprints the decryption parameters the archive was produced
	// with. Empty is read as crypto.AlgsCiphersuite.
	Algs string `json:"algs"`
	// Meta is plaintext information about the export.
	Meta Meta `json:"meta"`
	// Encryption holds the account envelope material.
	Encryption Encryption `json:"encryption"`
	// Files are the encrypted content records.
	Files []Record `json:"files"`
}

// Meta describes who exported the archive and when.
type Meta struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ExportedAt time.Time `json:"exportedAt"`
}

// Encryption is the per-account envelope material: the KDF salt and the
// wrapped data key, both as stored with the account.
type Encryption struct {
	Salt       string `json:"salt"`
	WrappedKey string `json:"wrappedKey"`
}

// Record is an encrypted content record. The three cipher fields are
// independently base64url-encoded; Name and the timestamps are plaintext.
type Record struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
	IV            string    `json:"iv"`
	AuthTag       string    `json:"authTag"`
	EncryptedBlob string    `json:"encryptedBlob"`
}

// Blob decodes the record's cipher fields.
func (r *Record) Blob() (*crypto.Blob, error) {
	return crypto.DecodeBlob(r.IV, r.AuthTag, r.EncryptedBlob)
}

// SetBlob stores an encrypted blob in the record's cipher fields.
func (r *Record) SetBlob(b *crypto.Blob) {
	r.IV = crypto.ToBase64URL(b.IV)
	r.AuthTag = crypto.ToBase64URL(b.AuthTag)
	r.EncryptedBlob = crypto.ToBase64URL(b.Ciphertext)
}

// Validate checks the archive structure. A missing version or algorithm
// suite is read as version 1 with the default suite, the shape produced by
// exporters that predate those fields. It deliberately does not decode the
// salt or wrapped key: a damaged envelope must fail the same way a wrong
// password does, at unlock time. Record ids are not checked here; a bad
// record must not keep the others from being restored.
func (a *Archive) Validate() error {
	if a.Version != 0 && a.Version != Version {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidArchive, a.Version, Version)
	}

	if a.Algs != "" && a.Algs != crypto.AlgsCiphersuite {
		return fmt.Errorf("%w: unsupported algorithm suite %q", ErrInvalidArchive, a.Algs)
	}

	if a.Encryption.Salt == "" {
		return fmt.Errorf("%w: encryption.salt is required", ErrInvalidArchive)
	}
	if a.Encryption.WrappedKey == "" {
		return fmt.Errorf("%w: encryption.wrappedKey is required", ErrInvalidArchive)
	}

	return nil
}

// ValidateRecords checks that every record has a unique, non-empty id. The
// writer enforces it; readers tolerate archives that break it.
func (a *Archive) ValidateRecords() error {
	seen := make(map[string]struct{}, len(a.Files))
	for i, f := range a.Files {
		if f.ID == "" {
			return fmt.Errorf("%w: files[%d].id is required", ErrInvalidArchive, i)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate file id %q", ErrInvalidArchive, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// applyDefaults fills in the fields older exporters leave out.
func (a *Archive) applyDefaults() {
	if a.Version == 0 {
		a.Version = Version
	}
	if a.Algs == "" {
		a.Algs = crypto.AlgsCiphersuite
	}
}

// Parse reads and validates an archive document.
func Parse(r io.Reader) (*Archive, error) {
	var a Archive
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.applyDefaults()
	return &a, nil
}
