package sealnote

import (
	"context"

	"github.com/sealnote/client-go/internal/restore"
)

// FailurePlaceholder is the text of a record that could not be decrypted.
const FailurePlaceholder = restore.FailurePlaceholder

// DecryptedRecord is one result of a batch decryption. On failure Text is
// FailurePlaceholder and Err is set.
type DecryptedRecord = restore.File

// BatchResult holds per-record outcomes in input order.
type BatchResult struct {
	Records []DecryptedRecord
}

// Failed returns the records that could not be decrypted.
func (r *BatchResult) Failed() []DecryptedRecord {
	var failed []DecryptedRecord
	for i := range r.Records {
		if r.Records[i].Failed() {
			failed = append(failed, r.Records[i])
		}
	}
	return failed
}

// Err returns a *PartialBatchError naming the failed records, or nil when
// every record decrypted.
func (r *BatchResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	ids := make([]string, len(failed))
	for i := range failed {
		ids[i] = failed[i].ID
	}
	return &PartialBatchError{Total: len(r.Records), Failed: ids}
}

// DecryptRecords decrypts records under key in parallel, at most workers at
// a time (zero means unbounded). A record that fails does not affect the
// others. The returned error is non-nil only when ctx is cancelled.
func DecryptRecords(ctx context.Context, key *DataKey, records []ContentRecord, workers int) (*BatchResult, error) {
	if len(key.keyBytes()) == 0 {
		return nil, ErrInvalidKey
	}
	return decryptRecords(ctx, key, records, workers)
}

func decryptRecords(ctx context.Context, key *DataKey, records []ContentRecord, workers int) (*BatchResult, error) {
	files, err := restore.DecryptRecords(ctx, key.keyBytes(), records, workers)
	if err != nil {
		return nil, err
	}

	return newBatchResult(files), nil
}

// newBatchResult converts per-record errors to public errors.
func newBatchResult(files []restore.File) *BatchResult {
	for i := range files {
		if files[i].Err != nil {
			op := "decrypt record " + files[i].ID
			files[i].Err = wrapCryptoError(op, "record "+files[i].ID, files[i].Err)
		}
	}
	return &BatchResult{Records: files}
}
