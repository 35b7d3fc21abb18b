package sealnote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestExportArchive(t *testing.T) {
	c := newTestClient(t)
	account, session, err := c.Signup(context.Background(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}
	r1, _ := session.EncryptNote("a", "alpha")
	r2, _ := session.EncryptNote("b", "beta")

	exportedAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	a, err := session.Export(ArchiveMeta{Name: "Ada", Email: "ada@example.com", ExportedAt: exportedAt},
		[]ContentRecord{*r1, *r2})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if a.Version != ArchiveVersion {
		t.Errorf("Version = %d, want %d", a.Version, ArchiveVersion)
	}
	if a.Encryption.Salt != account.EncryptionSalt || a.Encryption.WrappedKey != account.WrappedKey {
		t.Error("archive should carry the account envelope material verbatim")
	}
	if len(a.Files) != 2 || a.Files[0].ID != r1.ID {
		t.Errorf("Files = %+v", a.Files)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(a); err != nil {
		t.Fatal(err)
	}
	parsed, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive() error = %v", err)
	}
	if !parsed.Meta.ExportedAt.Equal(exportedAt) {
		t.Errorf("ExportedAt = %v, want %v", parsed.Meta.ExportedAt, exportedAt)
	}
}

func TestExportArchive_DefaultsExportTime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)}
	c := newTestClient(t, withClock(clock.Now))
	_, session, err := c.Signup(context.Background(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}

	a, err := session.Export(ArchiveMeta{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Meta.ExportedAt.Equal(clock.Now()) {
		t.Errorf("ExportedAt = %v, want %v", a.Meta.ExportedAt, clock.Now())
	}
}

func TestExportArchive_Invalid(t *testing.T) {
	if _, err := ExportArchive(nil, ArchiveMeta{}, nil); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("ExportArchive(nil) error = %v, want ErrInvalidArchive", err)
	}

	account := &Account{EncryptionSalt: "s", WrappedKey: "w"}
	dup := []ContentRecord{{ID: "x"}, {ID: "x"}}
	if _, err := ExportArchive(account, ArchiveMeta{}, dup); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("ExportArchive(duplicate ids) error = %v, want ErrInvalidArchive", err)
	}

	blank := []ContentRecord{{ID: "x"}, {}}
	if _, err := ExportArchive(account, ArchiveMeta{}, blank); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("ExportArchive(empty id) error = %v, want ErrInvalidArchive", err)
	}
}

// The restore path always uses the production KDF cost, so this test does
// too.
func TestDecryptArchive(t *testing.T) {
	if testing.Short() {
		t.Skip("full-cost key derivation")
	}

	ctx := context.Background()
	c := New()

	_, session, err := c.Signup(ctx, []byte("archive password"))
	if err != nil {
		t.Fatal(err)
	}
	good, _ := session.EncryptNote("good", "readable")
	bad, _ := session.EncryptNote("bad", "unreadable")
	tag, _ := Decode(bad.AuthTag)
	tag[15] ^= 1
	bad.AuthTag = Encode(tag)

	a, err := session.Export(ArchiveMeta{Name: "n"}, []ContentRecord{*good, *bad})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("correct password", func(t *testing.T) {
		res, err := c.DecryptArchive(ctx, a, []byte("archive password"))
		if err != nil {
			t.Fatalf("DecryptArchive() error = %v", err)
		}
		if res.Records[0].Text != "readable" {
			t.Errorf("record 0 = %q, want readable", res.Records[0].Text)
		}
		if res.Records[1].Text != FailurePlaceholder || !errors.Is(res.Records[1].Err, ErrIntegrity) {
			t.Errorf("record 1 = %+v, want placeholder and ErrIntegrity", res.Records[1])
		}
		if !errors.Is(res.Err(), ErrPartialBatch) {
			t.Errorf("Err() = %v, want ErrPartialBatch", res.Err())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := c.DecryptArchive(ctx, a, []byte("nope"))
		if !errors.Is(err, ErrWrongPasswordOrCorrupted) {
			t.Fatalf("DecryptArchive() error = %v, want ErrWrongPasswordOrCorrupted", err)
		}
		if err.Error() != "wrong password or corrupted file" {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}
