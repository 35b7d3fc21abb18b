package crypto

const (
	// KDFIterations is the PBKDF2-HMAC-SHA-256 round count used to derive a
	// master key from a password. Changing it makes every existing wrapped
	// key and exported archive undecryptable.
	KDFIterations = 600000

	// SaltSize is the size of the per-account KDF salt in bytes.
	SaltSize = 16

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// ShareHKDFContext is the HKDF info prefix used when sealing a share key
	// to a recipient's ML-KEM-768 public key.
	ShareHKDFContext = "sealnote:share:v1"

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32

	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152
)

// AlgsCiphersuite is the canonical string representation of the envelope
// and content algorithm suite. Archives carry it so an offline decryptor can
// refuse parameters it does not replicate.
var AlgsCiphersuite = "PBKDF2-HMAC-SHA-256/600000:AES-256-GCM/IV-12/TAG-16"
