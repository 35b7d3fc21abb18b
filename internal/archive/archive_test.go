package archive

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sealnote/client-go/internal/crypto"
)

func validArchive() *Archive {
	return &Archive{
		Version:    Version,
		Algs:       crypto.AlgsCiphersuite,
		Meta:       Meta{Name: "Ada", Email: "ada@example.com", ExportedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		Encryption: Encryption{Salt: "c2FsdA", WrappedKey: "d3JhcHBlZA"},
		Files: []Record{
			{ID: "a", Name: "A", IV: "aXY", AuthTag: "dGFn", EncryptedBlob: "Y3Q"},
			{ID: "b", Name: "B"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Archive)
		wantErr bool
	}{
		{"valid", func(*Archive) {}, false},
		{"no files", func(a *Archive) { a.Files = nil }, false},
		{"wrong version", func(a *Archive) { a.Version = 2 }, true},
		{"absent version", func(a *Archive) { a.Version = 0 }, false},
		{"absent algorithm suite", func(a *Archive) { a.Algs = "" }, false},
		{"foreign algorithm suite", func(a *Archive) { a.Algs = "PBKDF2-HMAC-SHA-256/100000:AES-256-GCM/IV-12/TAG-16" }, true},
		{"missing salt", func(a *Archive) { a.Encryption.Salt = "" }, true},
		{"missing wrapped key", func(a *Archive) { a.Encryption.WrappedKey = "" }, true},
		{"missing file id", func(a *Archive) { a.Files[1].ID = "" }, false},
		{"duplicate file id", func(a *Archive) { a.Files[1].ID = "a" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArchive()
			tt.mutate(a)

			err := a.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArchive) {
					t.Errorf("Validate() error = %v, want ErrInvalidArchive", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestArchive_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(validArchive())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "algs", "meta", "encryption", "files"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("archive JSON missing %q", key)
		}
	}

	var files []map[string]json.RawMessage
	if err := json.Unmarshal(raw["files"], &files); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"id", "name", "created", "updated", "iv", "authTag", "encryptedBlob"} {
		if _, ok := files[0][key]; !ok {
			t.Errorf("file JSON missing %q", key)
		}
	}

	var enc map[string]string
	if err := json.Unmarshal(raw["encryption"], &enc); err != nil {
		t.Fatal(err)
	}
	if enc["salt"] == "" || enc["wrappedKey"] == "" {
		t.Errorf("encryption JSON = %v, want salt and wrappedKey", enc)
	}
}

func TestParse(t *testing.T) {
	data, err := json.Marshal(validArchive())
	if err != nil {
		t.Fatal(err)
	}

	a, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if a.Meta.Email != "ada@example.com" || len(a.Files) != 2 {
		t.Errorf("Parse() = %+v", a)
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Archive)
		wantErr bool
	}{
		{"unique ids", func(*Archive) {}, false},
		{"no files", func(a *Archive) { a.Files = nil }, false},
		{"missing file id", func(a *Archive) { a.Files[1].ID = "" }, true},
		{"duplicate file id", func(a *Archive) { a.Files[1].ID = "a" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArchive()
			tt.mutate(a)

			err := a.ValidateRecords()
			if tt.wantErr != (err != nil) {
				t.Errorf("ValidateRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("ValidateRecords() error = %v, want ErrInvalidArchive", err)
			}
		})
	}
}

// An export holding only meta, encryption and files parses as version 1
// with the default suite.
func TestParse_WithoutVersionAndAlgs(t *testing.T) {
	input := `{
		"meta": {"name": "Ada", "email": "ada@example.com", "exportedAt": "2026-01-02T03:04:05Z"},
		"encryption": {"salt": "c2FsdA", "wrappedKey": "d3JhcHBlZA"},
		"files": [
			{"id": "a", "name": "A", "created": "2026-01-01T00:00:00Z", "updated": "2026-01-01T00:00:00Z",
			 "iv": "aXY", "authTag": "dGFn", "encryptedBlob": "Y3Q"}
		]
	}`

	a, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if a.Version != Version {
		t.Errorf("Version = %d, want %d", a.Version, Version)
	}
	if a.Algs != crypto.AlgsCiphersuite {
		t.Errorf("Algs = %q, want %q", a.Algs, crypto.AlgsCiphersuite)
	}
	if len(a.Files) != 1 || a.Files[0].EncryptedBlob != "Y3Q" {
		t.Errorf("Files = %+v", a.Files)
	}
}

func TestParse_DuplicateIDsTolerated(t *testing.T) {
	a := validArchive()
	a.Files[1].ID = "a"
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Files) != 2 {
		t.Errorf("got %d files, want 2", len(parsed.Files))
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "nope"},
		{"empty object", "{}"},
		{"wrong version", `{"version":7}`},
		{"foreign suite", `{"algs":"SCRYPT:XCHACHA20","encryption":{"salt":"c2FsdA","wrappedKey":"d3JhcHBlZA"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("Parse() error = %v, want ErrInvalidArchive", err)
			}
		})
	}
}

func TestRecord_BlobRoundTrip(t *testing.T) {
	key := make([]byte, crypto.AESKeySize)
	blob, err := crypto.Seal(key, []byte("body"))
	if err != nil {
		t.Fatal(err)
	}

	var r Record
	r.SetBlob(blob)

	got, err := r.Blob()
	if err != nil {
		t.Fatalf("Blob() error = %v", err)
	}
	pt, err := crypto.DecryptAES(key, got)
	if err != nil {
		t.Fatalf("DecryptAES() error = %v", err)
	}
	if string(pt) != "body" {
		t.Errorf("plaintext = %q, want %q", pt, "body")
	}
}
