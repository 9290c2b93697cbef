package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtlab/fmtlab/internal/config"
)

func encryptionConfig() *config.Config {
	return &config.Config{
		EncryptionWebSecret:       "web-secret-value",
		EncryptionBackendSecret:   "backend-secret-value",
		EncryptionAnalyticsSecret: "analytics-secret-value",
		EncryptionKeySalt:         "static-salt",
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(encryptionConfig())
	require.NoError(t, err)
	return svc
}

func TestNewService_MissingSecret(t *testing.T) {
	cfg := encryptionConfig()
	cfg.EncryptionBackendSecret = ""
	_, err := NewService(cfg)
	assert.Error(t, err)
}

func TestParseTarget(t *testing.T) {
	cases := []struct {
		input string
		want  Target
		ok    bool
	}{
		{"1", TargetWeb, true},
		{"2", TargetBackend, true},
		{"3", TargetAnalytics, true},
		{"4", 0, false},
		{"", 0, false},
		{"web", 0, false},
	}
	for _, c := range cases {
		got, err := ParseTarget(c.input)
		if c.ok {
			require.NoError(t, err, "input %q", c.input)
			assert.Equal(t, c.want, got)
		} else {
			assert.ErrorIs(t, err, ErrUnknownTarget, "input %q", c.input)
		}
	}
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "web", TargetWeb.String())
	assert.Equal(t, "backend", TargetBackend.String())
	assert.Equal(t, "analytics", TargetAnalytics.String())
	assert.Equal(t, "unknown", Target(9).String())
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	for _, target := range []Target{TargetWeb, TargetBackend, TargetAnalytics} {
		t.Run(target.String(), func(t *testing.T) {
			ciphertext, err := svc.Encrypt(target, "sensitive payload")
			require.NoError(t, err)
			assert.NotEqual(t, "sensitive payload", ciphertext)

			plaintext, err := svc.Decrypt(target, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, "sensitive payload", plaintext)
		})
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.Encrypt(TargetWeb, "same input")
	require.NoError(t, err)
	b, err := svc.Encrypt(TargetWeb, "same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "repeated encryption must produce distinct ciphertext")
}

func TestDecrypt_CrossTargetFails(t *testing.T) {
	svc := newTestService(t)

	ciphertext, err := svc.Encrypt(TargetWeb, "for web only")
	require.NoError(t, err)

	_, err = svc.Decrypt(TargetBackend, ciphertext)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_Malformed(t *testing.T) {
	svc := newTestService(t)

	t.Run("not base64", func(t *testing.T) {
		_, err := svc.Decrypt(TargetWeb, "!!not-base64!!")
		assert.ErrorIs(t, err, ErrMalformedCiphertext)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := svc.Decrypt(TargetWeb, "c2hvcnQ=")
		assert.ErrorIs(t, err, ErrMalformedCiphertext)
	})

	t.Run("tampered", func(t *testing.T) {
		ciphertext, err := svc.Encrypt(TargetWeb, "intact")
		require.NoError(t, err)
		tampered := "A" + ciphertext[1:]
		_, err = svc.Decrypt(TargetWeb, tampered)
		assert.Error(t, err)
	})
}

func TestEncryptDecrypt_UnknownTarget(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Encrypt(Target(9), "x")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = svc.Decrypt(Target(9), "x")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}
