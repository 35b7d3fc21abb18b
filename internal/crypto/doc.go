// Package crypto is the algorithmic core shared by the sealnote client and
// the offline restore tool. Both compile from this package, so archives
// produced by a live client decrypt offline with identical parameters.
//
// # Algorithm Suite
//
//   - PBKDF2-HMAC-SHA-256, 600,000 rounds, 16-byte salt: derives the master
//     key from a password. See [DeriveMasterKey].
//
//   - AES-256-GCM with a fresh 12-byte nonce per call and no associated data:
//     encrypts content and wraps data keys. See [Seal], [EncryptAES] and
//     [DecryptAES].
//
//   - ML-KEM-768 (NIST FIPS 203) with HKDF-SHA-512: seals a share key to a
//     recipient keypair. See [SealKey] and [OpenKey].
//
// # Blob Layout
//
// GCM produces ciphertext||tag. A [Blob] keeps the trailing 16 bytes in
// AuthTag and the rest in Ciphertext. Wrapped keys, note bodies and archives
// all use this split.
//
// # Key Hierarchy
//
// The master key only ever wraps and unwraps the data key ([WrapKey],
// [UnwrapKey]). The data key encrypts content. A wrong master key and a
// tampered wrapped key both fail with [ErrDecryptionFailed].
//
// AES-GCM nonces MUST be unique for each encryption with the same key. All
// encryption entry points draw the nonce themselves except [EncryptAES],
// which exists for known-answer tests.
//
// # Base64 Encoding
//
// [ToBase64URL]/[FromBase64URL] implement URL-safe base64 without padding
// (RFC 4648 §5). It is used for every stored and transmitted value.
package crypto
