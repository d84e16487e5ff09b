// Package identity implements the public identities that own and operate
// on subscription records, and the signed proofs by which a caller shows it
// controls one.
//
// An Identity is a raw Ed25519 public key. Its text form is base58, the
// same encoding wallets use, so identities can be pasted between the
// dashboard, the oracle and this service unchanged.
package identity

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the byte length of an Identity.
const Size = ed25519.PublicKeySize

// Identity is an Ed25519 public key.
type Identity [Size]byte

// ErrInvalidIdentity is returned when bytes or text do not decode to a
// 32-byte identity.
var ErrInvalidIdentity = errors.New("identity: invalid identity")

// FromPublicKey converts an Ed25519 public key to an Identity.
func FromPublicKey(pub ed25519.PublicKey) (Identity, error) {
	return FromBytes(pub)
}

// FromBytes copies b into an Identity. b must be exactly Size bytes.
func FromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != Size {
		return id, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidIdentity, len(b), Size)
	}
	copy(id[:], b)
	return id, nil
}

// Parse decodes the base58 text form.
func Parse(s string) (Identity, error) {
	if s == "" {
		return Identity{}, fmt.Errorf("%w: empty", ErrInvalidIdentity)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	return FromBytes(b)
}

// MustParse is Parse that panics. For tests and constants only.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

// PublicKey returns the Ed25519 verification key.
func (id Identity) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(id[:])
}

// Bytes returns a copy of the raw key.
func (id Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
