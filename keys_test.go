package sealnote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sealnote/client-go/internal/crypto"
)

func TestGenerateDataKey(t *testing.T) {
	k1, err := GenerateDataKey()
	if err != nil {
		t.Fatalf("GenerateDataKey() error = %v", err)
	}
	k2, err := GenerateDataKey()
	if err != nil {
		t.Fatalf("GenerateDataKey() error = %v", err)
	}

	if len(k1.keyBytes()) != crypto.AESKeySize {
		t.Errorf("key length = %d, want %d", len(k1.keyBytes()), crypto.AESKeySize)
	}
	if k1.Equal(k2) {
		t.Error("two generated keys should differ")
	}
}

func TestExportImportDataKey(t *testing.T) {
	k, err := GenerateDataKey()
	if err != nil {
		t.Fatal(err)
	}

	exported := ExportKeyToString(k)
	if len(exported) != 43 {
		t.Errorf("exported length = %d, want 43", len(exported))
	}

	imported, err := ImportKeyFromString(exported)
	if err != nil {
		t.Fatalf("ImportKeyFromString() error = %v", err)
	}
	if !imported.Equal(k) {
		t.Error("imported key differs from exported key")
	}

	// The imported key must decrypt what the original encrypted.
	blob, err := EncryptText("hello", k)
	if err != nil {
		t.Fatal(err)
	}
	text, err := DecryptText(blob, imported)
	if err != nil {
		t.Fatalf("DecryptText() with imported key error = %v", err)
	}
	if text != "hello" {
		t.Errorf("DecryptText() = %q, want hello", text)
	}
}

func TestImportKeyFromString_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"padded", crypto.ToBase64URL(make([]byte, 32)) + "="},
		{"too short", crypto.ToBase64URL(make([]byte, 16))},
		{"too long", crypto.ToBase64URL(make([]byte, 33))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportKeyFromString(tt.input)
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("ImportKeyFromString(%q) error = %v, want ErrEncoding", tt.input, err)
			}
		})
	}
}

func TestMasterKey_NotSerializable(t *testing.T) {
	mk := &MasterKey{b: make([]byte, 32)}

	if _, err := json.Marshal(mk); err == nil {
		t.Error("json.Marshal(MasterKey) should fail")
	}
	if _, err := json.Marshal(struct{ K MasterKey }{*mk}); err == nil {
		t.Error("json.Marshal of a struct holding a MasterKey should fail")
	}

	for _, s := range []string{fmt.Sprint(mk), fmt.Sprintf("%v", *mk), fmt.Sprintf("%#v", *mk)} {
		if !strings.Contains(s, "redacted") {
			t.Errorf("formatted master key = %q, want redacted", s)
		}
	}
}

func TestKey_Destroy(t *testing.T) {
	k, err := GenerateDataKey()
	if err != nil {
		t.Fatal(err)
	}
	k.Destroy()

	if k.keyBytes() != nil {
		t.Error("destroyed key still holds bytes")
	}
	if _, err := EncryptText("x", k); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("EncryptText() with destroyed key error = %v, want ErrInvalidKey", err)
	}

	var nilKey *DataKey
	nilKey.Destroy()
}
