package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// LocalVerifier checks plaintext passwords against stored SHA-256 digests.
type LocalVerifier struct{}

// NewLocalVerifier creates a new local password verifier
func NewLocalVerifier() *LocalVerifier {
	return &LocalVerifier{}
}

// DigestPassword returns the SHA-256 digest of a plaintext password. This is
// the digest form stored on local accounts.
func DigestPassword(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return sum[:]
}

// Verify reports whether plaintext digests to storedDigest. An empty stored
// digest always fails. The comparison is constant-time so the result cannot
// leak how many leading bytes matched.
func (v *LocalVerifier) Verify(plaintext string, storedDigest []byte) bool {
	if len(storedDigest) == 0 {
		return false
	}
	computed := DigestPassword(plaintext)
	return subtle.ConstantTimeCompare(computed, storedDigest) == 1
}

// Name returns verifier name for logging
func (v *LocalVerifier) Name() string {
	return "local"
}
