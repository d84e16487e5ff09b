// Package cryptox holds the symmetric primitives used to protect signing
// keys at rest: Argon2id key derivation and AES-256-GCM sealing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/airvent/subscription/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

// SaltSize is the salt length callers should pass to DeriveKey.
const SaltSize = 16

// ErrOpen is returned when a sealed box fails authentication.
var ErrOpen = errors.New("cryptox: message authentication failed")

// DeriveKey stretches passphrase into an AES-256 key with Argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under key with a fresh random nonce. ad is
// authenticated but not encrypted.
func Seal(key, plaintext, ad []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, ad), nonce, nil
}

// Open reverses Seal. Any tampering with ciphertext, nonce or ad, or a
// wrong key, yields ErrOpen.
func Open(key, ciphertext, nonce, ad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrOpen
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
