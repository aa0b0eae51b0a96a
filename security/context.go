package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/binwrap/binwrap-go/contracts"
)

const (
	// KeySize is the symmetric key length, shared by AES-256-GCM and
	// HMAC-SHA256.
	KeySize = 32
	// NonceSize is the per-seal random nonce length.
	NonceSize = 16
	// TagSize is the GCM authentication tag length.
	TagSize = 16
	// Overhead is the fixed size a sealed blob adds to its plaintext.
	Overhead = NonceSize + TagSize
)

// SecurityContext holds one symmetric key and the AEAD built from it. It is
// safe for concurrent use: the key is read-only after construction and every
// Seal call draws its own nonce.
type SecurityContext struct {
	key  []byte
	aead cipher.AEAD
}

// NewSecurityContext builds a context around a 32-byte key. A nil key is
// replaced with a fresh random one; any other length fails with
// contracts.ErrInvalidArgument.
func NewSecurityContext(key []byte) (*SecurityContext, error) {
	if key == nil {
		key = make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
	} else if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d",
			contracts.ErrInvalidArgument, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	owned := make([]byte, KeySize)
	copy(owned, key)
	return &SecurityContext{key: owned, aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce and returns
// nonce + tag + ciphertext. The blob is exactly len(plaintext)+Overhead
// bytes.
func (s *SecurityContext) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// cipher.AEAD emits ciphertext with the tag appended; the blob layout
	// wants the tag up front.
	sealed := s.aead.Seal(nil, nonce, plaintext, nil)
	ciphertext := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]

	blob := make([]byte, 0, Overhead+len(plaintext))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Open verifies and decrypts a sealed blob. Any tampering with nonce, tag or
// ciphertext fails with contracts.ErrAuthenticationFailed; partially
// decrypted data is never returned.
func (s *SecurityContext) Open(blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, fmt.Errorf("%w: sealed blob shorter than %d bytes",
			contracts.ErrAuthenticationFailed, Overhead)
	}
	nonce := blob[:NonceSize]
	tag := blob[NonceSize:Overhead]
	ciphertext := blob[Overhead:]

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, contracts.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Sign returns the HMAC-SHA256 digest of data under the context key.
func (s *SecurityContext) Sign(data []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Verify reports whether sig is the valid HMAC-SHA256 digest of data. The
// comparison is constant time.
func (s *SecurityContext) Verify(data, sig []byte) bool {
	return hmac.Equal(s.Sign(data), sig)
}
