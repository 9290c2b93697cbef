package encryption

import "errors"

var (
	// ErrUnknownTarget indicates the request named a target outside the closed set
	ErrUnknownTarget = errors.New("unknown encryption target")

	// ErrMalformedCiphertext indicates the payload is not valid base64(nonce||ciphertext)
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrDecryptionFailed indicates the ciphertext did not authenticate under the target key
	ErrDecryptionFailed = errors.New("decryption failed")
)
