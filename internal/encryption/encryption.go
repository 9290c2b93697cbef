package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/fmtlab/fmtlab/internal/config"
)

// Target selects which key domain an encryption request uses. Each target
// holds an independent key so ciphertext from one role cannot be opened by
// another.
type Target int

const (
	TargetWeb       Target = 1
	TargetBackend   Target = 2
	TargetAnalytics Target = 3
)

// String returns the target label used in logs and metrics.
func (t Target) String() string {
	switch t {
	case TargetWeb:
		return "web"
	case TargetBackend:
		return "backend"
	case TargetAnalytics:
		return "analytics"
	default:
		return "unknown"
	}
}

// ParseTarget maps the wire value ("1", "2", "3") to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "1":
		return TargetWeb, nil
	case "2":
		return TargetBackend, nil
	case "3":
		return TargetAnalytics, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}

// Service encrypts and decrypts payloads with per-target AES-256-GCM keys
// derived once at startup. Ciphertext wire form is base64(nonce||sealed).
type Service struct {
	aeads map[Target]cipher.AEAD
}

// NewService derives the per-target keys from configuration and prepares the
// AEAD primitives. All three target secrets must be set.
func NewService(cfg *config.Config) (*Service, error) {
	secrets := map[Target]string{
		TargetWeb:       cfg.EncryptionWebSecret,
		TargetBackend:   cfg.EncryptionBackendSecret,
		TargetAnalytics: cfg.EncryptionAnalyticsSecret,
	}

	salt := []byte(cfg.EncryptionKeySalt)
	aeads := make(map[Target]cipher.AEAD, len(secrets))
	for target, secret := range secrets {
		if secret == "" {
			return nil, fmt.Errorf("missing encryption secret for target %s", target)
		}
		key := pbkdf2.Key([]byte(secret), salt, 10000, 32, sha256.New)
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to build cipher for target %s: %w", target, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to build GCM for target %s: %w", target, err)
		}
		aeads[target] = aead
	}

	return &Service{aeads: aeads}, nil
}

// Encrypt seals plaintext under the target's key with a fresh random nonce.
func (s *Service) Encrypt(target Target, plaintext string) (string, error) {
	aead, ok := s.aeads[target]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownTarget, target)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64(nonce||ciphertext) payload with the target's key.
func (s *Service) Decrypt(target Target, encoded string) (string, error) {
	aead, ok := s.aeads[target]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownTarget, target)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
