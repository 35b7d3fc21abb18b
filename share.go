package sealnote

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"

	"github.com/sealnote/client-go/internal/crypto"
)

// ShareKey is a standalone 256-bit key for a shared record. It is unrelated
// to any account DataKey and travels to the recipient in the URL fragment,
// which browsers never send to the server.
type ShareKey struct {
	b []byte
}

func (k *ShareKey) keyBytes() []byte {
	if k == nil {
		return nil
	}
	return k.b
}

// GenerateShareKey returns a fresh random ShareKey.
func GenerateShareKey() (*ShareKey, error) {
	b, err := crypto.RandomKey()
	if err != nil {
		return nil, err
	}
	return &ShareKey{b: b}, nil
}

// Export returns the key's raw bytes as a Codec string.
func (k *ShareKey) Export() string {
	return crypto.ToBase64URL(k.keyBytes())
}

// Equal reports whether both keys hold the same bytes, in constant time.
func (k *ShareKey) Equal(other *ShareKey) bool {
	a, b := k.keyBytes(), other.keyBytes()
	return len(a) == crypto.AESKeySize && subtle.ConstantTimeCompare(a, b) == 1
}

// Destroy wipes the key material.
func (k *ShareKey) Destroy() {
	if k == nil {
		return
	}
	crypto.Zero(k.b)
	k.b = nil
}

func (ShareKey) String() string   { return "ShareKey(redacted)" }
func (ShareKey) GoString() string { return "ShareKey(redacted)" }

// ExportKeyToURL returns the Codec form of k for use in a URL fragment.
func ExportKeyToURL(k *ShareKey) string {
	return k.Export()
}

// ImportKeyFromURL reverses ExportKeyToURL. Trailing '=' padding added by
// link rewriting tools is tolerated.
func ImportKeyFromURL(s string) (*ShareKey, error) {
	b, err := importKeyBytes(s, crypto.DecodeBase64URL)
	if err != nil {
		return nil, &EncodingError{Field: "share key", Err: err}
	}
	return &ShareKey{b: b}, nil
}

// ShareURL returns base with the exported key as its fragment. Any fragment
// already on base is replaced.
func ShareURL(base string, k *ShareKey) (string, error) {
	if len(k.keyBytes()) != crypto.AESKeySize {
		return "", ErrInvalidKey
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share url: %w", err)
	}
	u.Fragment = ExportKeyToURL(k)
	u.RawFragment = ""
	return u.String(), nil
}

// ParseShareURL extracts the share key from the fragment of link.
func ParseShareURL(link string) (*ShareKey, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, &EncodingError{Field: "share url", Err: err}
	}
	if u.Fragment == "" {
		return nil, &EncodingError{Field: "share url", Err: errors.New("no key fragment")}
	}
	return ImportKeyFromURL(u.Fragment)
}

// RecipientKeypair is an ML-KEM-768 keypair that can receive share keys
// sealed to it, for sharing without putting the key in a link.
type RecipientKeypair struct {
	kp *crypto.Keypair
}

// GenerateRecipientKeypair creates a new recipient keypair.
func GenerateRecipientKeypair() (*RecipientKeypair, error) {
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &RecipientKeypair{kp: kp}, nil
}

// RecipientKeypairFromSecretKey restores a keypair from its exported secret key.
func RecipientKeypairFromSecretKey(secretKey string) (*RecipientKeypair, error) {
	raw, err := crypto.FromBase64URL(secretKey)
	if err != nil {
		return nil, &EncodingError{Field: "secret key", Err: err}
	}
	kp, err := crypto.KeypairFromSecretKey(raw)
	if err != nil {
		return nil, &EncodingError{Field: "secret key", Err: err}
	}
	return &RecipientKeypair{kp: kp}, nil
}

// PublicKey returns the Codec form of the public key, safe to publish.
func (r *RecipientKeypair) PublicKey() string {
	return r.kp.PublicKeyB64
}

// ExportSecretKey returns the Codec form of the secret key. Treat it like a
// password.
func (r *RecipientKeypair) ExportSecretKey() string {
	return crypto.ToBase64URL(r.kp.SecretKey)
}

// SealedShareKey is a ShareKey sealed to a recipient public key. All fields
// are base64url.
type SealedShareKey struct {
	CtKem      string `json:"ctKem"`
	Label      string `json:"label"`
	IV         string `json:"iv"`
	AuthTag    string `json:"authTag"`
	Ciphertext string `json:"ct"`
}

// SealShareKey seals k to the recipient's public key. label, typically the
// shared record id, is bound into the key derivation; opening under a
// different label fails.
func SealShareKey(k *ShareKey, recipientPublicKey, label string) (*SealedShareKey, error) {
	if len(k.keyBytes()) != crypto.AESKeySize {
		return nil, ErrInvalidKey
	}

	pub, err := crypto.FromBase64URL(recipientPublicKey)
	if err != nil {
		return nil, &EncodingError{Field: "public key", Err: err}
	}

	s, err := crypto.SealKey(pub, k.keyBytes(), []byte(label))
	if err != nil {
		return nil, &EncodingError{Field: "public key", Err: err}
	}

	return &SealedShareKey{
		CtKem:      crypto.ToBase64URL(s.CtKem),
		Label:      crypto.ToBase64URL(s.Label),
		IV:         crypto.ToBase64URL(s.Blob.IV),
		AuthTag:    crypto.ToBase64URL(s.Blob.AuthTag),
		Ciphertext: crypto.ToBase64URL(s.Blob.Ciphertext),
	}, nil
}

// OpenSealedShareKey recovers the ShareKey with the recipient's keypair. A
// wrong keypair and a tampered envelope both yield an IntegrityError.
func OpenSealedShareKey(s *SealedShareKey, r *RecipientKeypair) (*ShareKey, error) {
	if s == nil || r == nil {
		return nil, &IntegrityError{Op: "open share"}
	}

	sealed, err := decodeSealedShareKey(s)
	if err != nil {
		return nil, err
	}

	b, err := crypto.OpenKey(sealed, r.kp)
	if err != nil {
		return nil, &IntegrityError{Op: "open share"}
	}
	return &ShareKey{b: b}, nil
}

func decodeSealedShareKey(s *SealedShareKey) (*crypto.SealedKey, error) {
	ctKem, err := crypto.FromBase64URL(s.CtKem)
	if err != nil {
		return nil, &EncodingError{Field: "ctKem", Err: err}
	}
	label, err := crypto.FromBase64URL(s.Label)
	if err != nil {
		return nil, &EncodingError{Field: "label", Err: err}
	}
	blob, err := crypto.DecodeBlob(s.IV, s.AuthTag, s.Ciphertext)
	if err != nil {
		return nil, &EncodingError{Field: "sealed key", Err: err}
	}
	return &crypto.SealedKey{CtKem: ctKem, Label: label, Blob: blob}, nil
}
