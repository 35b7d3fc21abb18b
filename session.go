package sealnote

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/awnumar/memguard"

	"github.com/sealnote/client-go/internal/crypto"
)

// sessionSlot is one cached data key. A slot is immutable once published.
type sessionSlot struct {
	enclave  *memguard.Enclave
	storedAt time.Time
}

// SessionKeyStore caches the data key for the lifetime of a session. The
// key is held encrypted in a memguard enclave and is only decrypted into
// locked memory while Load runs. Store and Clear replace the
// slot atomically, so concurrent readers see either the old key, the new
// key or nothing.
type SessionKeyStore struct {
	slot atomic.Pointer[sessionSlot]
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionKeyStore returns an empty store. A positive ttl expires the
// cached key that long after Store; zero keeps it until Clear.
func NewSessionKeyStore(ttl time.Duration) *SessionKeyStore {
	return &SessionKeyStore{ttl: ttl, now: time.Now}
}

// Store caches an exported data key, replacing any previous one.
func (s *SessionKeyStore) Store(exported string) error {
	k, err := ImportKeyFromString(exported)
	if err != nil {
		return err
	}

	// The enclave holds the raw key. NewEnclave wipes its argument.
	enclave := memguard.NewEnclave(k.b)
	k.Destroy()

	s.slot.Store(&sessionSlot{enclave: enclave, storedAt: s.now()})
	return nil
}

// StoreKey caches k.
func (s *SessionKeyStore) StoreKey(k *DataKey) error {
	return s.Store(k.Export())
}

// Load returns the cached data key. The boolean is false when the store is
// empty, cleared or expired; the caller must then re-authenticate. Each call
// returns an independent copy the caller may Destroy.
func (s *SessionKeyStore) Load() (*DataKey, bool) {
	slot := s.slot.Load()
	if slot == nil {
		return nil, false
	}

	if s.ttl > 0 && s.now().Sub(slot.storedAt) >= s.ttl {
		s.slot.CompareAndSwap(slot, nil)
		return nil, false
	}

	buf, err := slot.enclave.Open()
	if err != nil {
		return nil, false
	}
	defer buf.Destroy()

	if buf.Size() != crypto.AESKeySize {
		return nil, false
	}
	key := make([]byte, crypto.AESKeySize)
	copy(key, buf.Bytes())
	return &DataKey{b: key}, true
}

// Clear drops the cached key.
func (s *SessionKeyStore) Clear() {
	s.slot.Store(nil)
}

// Session is a logged-in account. It owns the session key store and performs
// content operations with the cached data key.
type Session struct {
	account *Account
	keys    *SessionKeyStore
	cfg     *clientConfig
}

func newSession(account *Account, dataKey *DataKey, cfg *clientConfig) (*Session, error) {
	keys := NewSessionKeyStore(cfg.sessionTTL)
	keys.now = cfg.now
	if err := keys.StoreKey(dataKey); err != nil {
		return nil, err
	}
	return &Session{account: account, keys: keys, cfg: cfg}, nil
}

// Account returns the account the session was opened for.
func (s *Session) Account() *Account {
	return s.account
}

// Keys returns the session's key store.
func (s *Session) Keys() *SessionKeyStore {
	return s.keys
}

// DataKey returns a copy of the cached data key, or ErrSessionKeyAbsent
// after Logout or expiry.
func (s *Session) DataKey() (*DataKey, error) {
	k, ok := s.keys.Load()
	if !ok {
		return nil, ErrSessionKeyAbsent
	}
	return k, nil
}

// EncryptNote encrypts text into a new content record.
func (s *Session) EncryptNote(name, text string) (*ContentRecord, error) {
	k, err := s.DataKey()
	if err != nil {
		return nil, err
	}
	defer k.Destroy()
	return newContentRecord(name, text, k, s.cfg.now)
}

// UpdateNote returns a copy of r holding text under a fresh IV.
func (s *Session) UpdateNote(r *ContentRecord, text string) (*ContentRecord, error) {
	k, err := s.DataKey()
	if err != nil {
		return nil, err
	}
	defer k.Destroy()
	return reviseRecord(r, text, k, s.cfg.now)
}

// DecryptNote decrypts a single record.
func (s *Session) DecryptNote(r *ContentRecord) (string, error) {
	k, err := s.DataKey()
	if err != nil {
		return "", err
	}
	defer k.Destroy()
	return OpenRecord(r, k)
}

// DecryptRecords decrypts records in parallel with the cached data key. See
// DecryptRecords.
func (s *Session) DecryptRecords(ctx context.Context, records []ContentRecord) (*BatchResult, error) {
	k, err := s.DataKey()
	if err != nil {
		return nil, err
	}
	defer k.Destroy()

	res, err := decryptRecords(ctx, k, records, s.cfg.workers)
	if err != nil {
		return nil, err
	}
	if failed := len(res.Failed()); failed > 0 {
		s.cfg.logger.Warn("batch decryption incomplete",
			slog.Int("records", len(records)),
			slog.Int("failed", failed),
		)
	}
	return res, nil
}

// Export builds an archive of records together with the account's envelope
// material. The archive can be restored offline with the password alone.
func (s *Session) Export(meta ArchiveMeta, records []ContentRecord) (*Archive, error) {
	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = s.cfg.now().UTC()
	}
	return ExportArchive(s.account, meta, records)
}

// Logout clears the cached data key. Later content operations fail with
// ErrSessionKeyAbsent.
func (s *Session) Logout() {
	s.keys.Clear()
	s.cfg.logger.Debug("session closed")
}
