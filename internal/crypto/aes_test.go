package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"testing"
)

func TestEncryptAES_DecryptAES_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello world")},
		{"json", []byte(`{"foo": "bar", "num": 123}`)},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", make([]byte, 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, AESKeySize)
			if _, err := rand.Read(key); err != nil {
				t.Fatal(err)
			}

			nonce := make([]byte, AESNonceSize)
			if _, err := rand.Read(nonce); err != nil {
				t.Fatal(err)
			}

			blob, err := EncryptAES(key, tt.plaintext, nonce)
			if err != nil {
				t.Fatalf("EncryptAES() error = %v", err)
			}

			if len(blob.Ciphertext) != len(tt.plaintext) {
				t.Errorf("ciphertext length = %d, want %d", len(blob.Ciphertext), len(tt.plaintext))
			}
			if len(blob.AuthTag) != AESTagSize {
				t.Errorf("tag length = %d, want %d", len(blob.AuthTag), AESTagSize)
			}
			if !bytes.Equal(blob.IV, nonce) {
				t.Error("blob IV does not match nonce")
			}

			decrypted, err := DecryptAES(key, blob)
			if err != nil {
				t.Fatalf("DecryptAES() error = %v", err)
			}

			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("decrypted = %v, want %v", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEncryptAES_TagIsTrailingBytesOfGCMOutput(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, AESKeySize)
	nonce := bytes.Repeat([]byte{0x22}, AESNonceSize)
	plaintext := []byte("split convention")

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatal(err)
	}
	want := gcm.Seal(nil, nonce, plaintext, nil)

	blob, err := EncryptAES(key, plaintext, nonce)
	if err != nil {
		t.Fatalf("EncryptAES() error = %v", err)
	}

	got := append(append([]byte{}, blob.Ciphertext...), blob.AuthTag...)
	if !bytes.Equal(got, want) {
		t.Error("Ciphertext||AuthTag does not equal the GCM output")
	}
	if !bytes.Equal(blob.AuthTag, want[len(want)-AESTagSize:]) {
		t.Error("AuthTag is not the last 16 bytes of the GCM output")
	}
}

func TestEncryptAES_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
	}{
		{"empty", 0},
		{"too short", 16},
		{"too long", 64},
	}

	nonce := make([]byte, AESNonceSize)
	plaintext := []byte("test")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, tt.keySize)
			_, err := EncryptAES(key, plaintext, nonce)
			if !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("expected ErrInvalidKeySize, got %v", err)
			}
		})
	}
}

func TestEncryptAES_InvalidNonceSize(t *testing.T) {
	tests := []struct {
		name      string
		nonceSize int
	}{
		{"empty", 0},
		{"too short", 8},
		{"too long", 16},
	}

	key := make([]byte, AESKeySize)
	plaintext := []byte("test")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nonce := make([]byte, tt.nonceSize)
			_, err := EncryptAES(key, plaintext, nonce)
			if !errors.Is(err, ErrInvalidNonceSize) {
				t.Errorf("expected ErrInvalidNonceSize, got %v", err)
			}
		})
	}
}

func TestDecryptAES_Tampering(t *testing.T) {
	key := make([]byte, AESKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	fresh := func(t *testing.T) *Blob {
		t.Helper()
		blob, err := Seal(key, []byte("attack at dawn"))
		if err != nil {
			t.Fatalf("Seal() error = %v", err)
		}
		return blob
	}

	fields := []struct {
		name  string
		field func(*Blob) []byte
	}{
		{"iv", func(b *Blob) []byte { return b.IV }},
		{"authTag", func(b *Blob) []byte { return b.AuthTag }},
		{"ciphertext", func(b *Blob) []byte { return b.Ciphertext }},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			n := len(f.field(fresh(t)))
			for i := 0; i < n*8; i++ {
				blob := fresh(t)
				f.field(blob)[i/8] ^= 1 << (i % 8)

				pt, err := DecryptAES(key, blob)
				if !errors.Is(err, ErrDecryptionFailed) {
					t.Fatalf("bit %d: error = %v, want ErrDecryptionFailed", i, err)
				}
				if pt != nil {
					t.Fatalf("bit %d: plaintext returned on failure", i)
				}
			}
		})
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	key1 := make([]byte, AESKeySize)
	key2 := make([]byte, AESKeySize)
	rand.Read(key1)
	rand.Read(key2)

	blob, err := Seal(key1, []byte("secret"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	_, err = DecryptAES(key2, blob)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptAES_MalformedBlob(t *testing.T) {
	key := make([]byte, AESKeySize)

	tests := []struct {
		name string
		blob *Blob
		want error
	}{
		{"nil", nil, ErrDecryptionFailed},
		{"short iv", &Blob{IV: make([]byte, 8), AuthTag: make([]byte, AESTagSize)}, ErrInvalidNonceSize},
		{"short tag", &Blob{IV: make([]byte, AESNonceSize), AuthTag: make([]byte, 4)}, ErrInvalidTagSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptAES(key, tt.blob)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecryptAES() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := make([]byte, AESKeySize)
	seen := make(map[string]bool)

	for i := 0; i < 64; i++ {
		blob, err := Seal(key, []byte("same plaintext"))
		if err != nil {
			t.Fatalf("Seal() error = %v", err)
		}
		if seen[string(blob.IV)] {
			t.Fatal("nonce reused across Seal calls")
		}
		seen[string(blob.IV)] = true
	}
}

func TestSeal_RandReaderFailure(t *testing.T) {
	restore := SetRandReaderForTesting(bytes.NewReader(nil))
	defer restore()

	_, err := Seal(make([]byte, AESKeySize), []byte("x"))
	if err == nil {
		t.Error("expected error when random source is exhausted")
	}
}
