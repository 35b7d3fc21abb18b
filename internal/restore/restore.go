// Package restore decrypts exported archives with nothing but a password.
// It depends only on the shared crypto core and the archive format, so the
// offline tool built on it reproduces the live client's behavior exactly.
package restore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sealnote/client-go/internal/archive"
	"github.com/sealnote/client-go/internal/crypto"
)

// FailurePlaceholder replaces the text of a record that could not be decrypted.
const FailurePlaceholder = "[this note could not be decrypted]"

// ErrUnlockFailed is the only error reported for envelope-level failures.
// Wrong password, damaged salt and damaged wrapped key are not distinguished.
var ErrUnlockFailed = errors.New("wrong password or corrupted file")

// File is one decrypted archive record.
type File struct {
	ID      string
	Name    string
	Created time.Time
	Updated time.Time
	// Text is the plaintext, or FailurePlaceholder when Err is set.
	Text string
	// Err is the per-record failure, nil on success.
	Err error
}

// Failed reports whether the record could not be decrypted.
func (f *File) Failed() bool {
	return f.Err != nil
}

// Decryptor restores archives offline.
type Decryptor struct {
	workers    int
	logger     *slog.Logger
	iterations int
}

// Option configures a Decryptor.
type Option func(*Decryptor)

// WithWorkers bounds the number of records decrypted concurrently.
// Zero or negative means unbounded.
func WithWorkers(n int) Option {
	return func(d *Decryptor) {
		d.workers = n
	}
}

// WithLogger sets the logger. Key material and plaintext are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decryptor) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Decryptor.
func New(opts ...Option) *Decryptor {
	d := &Decryptor{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		iterations: crypto.KDFIterations,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Unlock derives the master key from password and the archive salt and
// unwraps the data key. Every failure is reported as ErrUnlockFailed.
// The caller owns the returned key and should wipe it with crypto.Zero.
func (d *Decryptor) Unlock(ctx context.Context, a *archive.Archive, password []byte) ([]byte, error) {
	salt, err := crypto.FromBase64URL(a.Encryption.Salt)
	if err != nil {
		return nil, ErrUnlockFailed
	}

	wrapped, err := crypto.DecodeWrappedKey(a.Encryption.WrappedKey)
	if err != nil {
		return nil, ErrUnlockFailed
	}

	start := time.Now()
	masterKey, err := crypto.DeriveMasterKeyContext(ctx, password, salt, d.iterations)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrUnlockFailed
	}
	defer crypto.Zero(masterKey)
	d.logger.Debug("master key derived", slog.Duration("duration", time.Since(start)))

	dataKey, err := crypto.UnwrapKey(wrapped, masterKey)
	if err != nil {
		return nil, ErrUnlockFailed
	}
	return dataKey, nil
}

// Decrypt unlocks the archive and decrypts every record. An unlock failure
// aborts before any record is attempted. A record that fails to decrypt
// carries FailurePlaceholder and its error; the rest of the batch continues.
func (d *Decryptor) Decrypt(ctx context.Context, a *archive.Archive, password []byte) ([]File, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	dataKey, err := d.Unlock(ctx, a, password)
	if err != nil {
		d.logger.Warn("archive unlock failed")
		return nil, err
	}
	defer crypto.Zero(dataKey)

	files, err := DecryptRecords(ctx, dataKey, a.Files, d.workers)
	if err != nil {
		return nil, err
	}

	failed := 0
	for i := range files {
		if files[i].Failed() {
			failed++
		}
	}
	d.logger.Info("archive restored",
		slog.Int("records", len(files)),
		slog.Int("failed", failed),
	)

	return files, nil
}

// DecryptRecords decrypts records under dataKey in parallel. Results keep
// the input order. Per-record failures are reported inline; the returned
// error is non-nil only when ctx is cancelled, in which case partial results
// are discarded.
func DecryptRecords(ctx context.Context, dataKey []byte, records []archive.Record, workers int) ([]File, error) {
	out := make([]File, len(records))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = DecryptRecord(dataKey, &records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecryptRecord decrypts a single record. It never returns a partially
// decrypted text: on any failure Text is FailurePlaceholder.
func DecryptRecord(dataKey []byte, r *archive.Record) File {
	f := File{
		ID:      r.ID,
		Name:    r.Name,
		Created: r.Created,
		Updated: r.Updated,
	}

	text, err := decryptText(dataKey, r)
	if err != nil {
		f.Text = FailurePlaceholder
		f.Err = fmt.Errorf("record %s: %w", r.ID, err)
		return f
	}

	f.Text = text
	return f
}

func decryptText(dataKey []byte, r *archive.Record) (string, error) {
	blob, err := r.Blob()
	if err != nil {
		return "", err
	}

	plaintext, err := crypto.DecryptAES(dataKey, blob)
	if err != nil {
		return "", err
	}

	return crypto.DecodeText(plaintext)
}
