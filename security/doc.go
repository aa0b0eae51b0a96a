// Package security provides the confidentiality and integrity primitives
// used by the binwrap pipeline, kept separate from the framing format.
//
// Sealing uses AES-256-GCM with a fresh random 16-byte nonce per call. The
// sealed blob layout is nonce (16) + tag (16) + ciphertext, so a sealed
// payload is always exactly 32 bytes longer than its plaintext. Signing uses
// HMAC-SHA256 over arbitrary bytes as a standalone integrity check,
// independent of the AEAD path.
//
// Key material is never logged and never appears in error messages.
package security
