package sealnote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sealnote/client-go/internal/archive"
	"github.com/sealnote/client-go/internal/crypto"
	"github.com/sealnote/client-go/internal/restore"
)

// ArchiveVersion is the archive format version written by ExportArchive.
const ArchiveVersion = archive.Version

// Archive is a self-contained export of an account's notes. Anyone holding it
// can mount an offline password-guessing attack, so treat it as sensitive.
type Archive = archive.Archive

// ArchiveMeta is the plaintext metadata of an archive.
type ArchiveMeta = archive.Meta

// ExportArchive builds an archive from the account's envelope material and
// its encrypted records. Records are copied as stored; nothing is decrypted.
func ExportArchive(account *Account, meta ArchiveMeta, records []ContentRecord) (*Archive, error) {
	if account == nil {
		return nil, fmt.Errorf("%w: account is required", ErrInvalidArchive)
	}

	files := make([]ContentRecord, len(records))
	copy(files, records)

	a := &Archive{
		Version: archive.Version,
		Algs:    crypto.AlgsCiphersuite,
		Meta:    meta,
		Encryption: archive.Encryption{
			Salt:       account.EncryptionSalt,
			WrappedKey: account.WrappedKey,
		},
		Files: files,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := a.ValidateRecords(); err != nil {
		return nil, err
	}
	return a, nil
}

// ReadArchive parses and validates an archive document.
func ReadArchive(r io.Reader) (*Archive, error) {
	return archive.Parse(r)
}

// DecryptArchive restores an archive with the password alone, the same way
// the offline restore tool does. A wrong password and a damaged envelope
// both yield ErrWrongPasswordOrCorrupted before any record is attempted.
// Per-record failures are reported in the result.
func (c *Client) DecryptArchive(ctx context.Context, a *Archive, password []byte) (*BatchResult, error) {
	d := restore.New(
		restore.WithWorkers(c.cfg.workers),
		restore.WithLogger(c.cfg.logger),
	)

	files, err := d.Decrypt(ctx, a, password)
	if err != nil {
		if errors.Is(err, restore.ErrUnlockFailed) {
			return nil, ErrWrongPasswordOrCorrupted
		}
		return nil, err
	}

	return newBatchResult(files), nil
}
