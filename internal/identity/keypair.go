package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Keypair is a signing identity.
type Keypair struct {
	Identity Identity
	Private  ed25519.PrivateKey
}

// GenerateKeypair creates a new random Ed25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating Ed25519 keypair: %w", err)
	}
	id, err := FromPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Keypair{Identity: id, Private: priv}, nil
}

// KeypairFromSeed rebuilds a keypair from its 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed has %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	id, err := FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{Identity: id, Private: priv}, nil
}
