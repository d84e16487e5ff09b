package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes from crypto/rand. It panics if the
// system randomness source fails, which is not recoverable anyway.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Use it on passphrases and key
// material once they are no longer needed. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
