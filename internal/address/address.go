// Package address derives the storage address of a subscription record.
//
// The address is a pure function of the owner identity: a BLAKE3 keyed hash
// over a constant seed, the owner key and a one-byte bump. Bumps are tried
// from 255 down and the first digest that does not decode to an Ed25519
// curve point wins, so no private key can ever sign for the address. The
// chosen bump is stored with the record and every access re-derives and
// compares.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/identity"
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// Seed is the constant first seed of every subscription address.
const Seed = "subscription"

// maxSeedLen bounds any single seed.
const maxSeedLen = 32

// offCurveMarker separates address digests from any other use of the key.
const offCurveMarker = "AirventDerivedAddress"

// Address is a derived record address.
type Address [32]byte

// ErrNoViableBump is returned when all 256 bumps land on the curve. The
// odds are about 2^-256; it exists so Find is total.
var ErrNoViableBump = errors.New("address: no off-curve bump found")

// derivationKey is the ASCII domain name zero-padded to 32 bytes.
var derivationKey = [32]byte{
	'a', 'i', 'r', 'v', 'e', 'n', 't', '.', 's', 'u', 'b', 's', 'c', 'r', 'i', 'p',
	't', 'i', 'o', 'n', '.', 'a', 'd', 'd', 'r', 'e', 's', 's', 0, 0, 0, 0,
}

// Create hashes seeds and bump into a candidate address. It fails if the
// candidate is a valid curve point.
func Create(seeds [][]byte, bump uint8) (Address, error) {
	h, err := blake3.NewKeyed(derivationKey[:])
	if err != nil {
		return Address{}, fmt.Errorf("address: init hash: %w", err)
	}
	for _, s := range seeds {
		if len(s) > maxSeedLen {
			return Address{}, fmt.Errorf("address: seed of %d bytes exceeds %d", len(s), maxSeedLen)
		}
		// Length prefix keeps ("ab","c") and ("a","bc") apart.
		_, _ = h.Write([]byte{byte(len(s))})
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(offCurveMarker))

	var a Address
	copy(a[:], h.Sum(nil))
	if IsOnCurve(a[:]) {
		return Address{}, fmt.Errorf("address: bump %d lands on the curve", bump)
	}
	return a, nil
}

// Find returns the address for owner and the highest bump that yields an
// off-curve digest.
func Find(owner identity.Identity) (Address, uint8, error) {
	seeds := ownerSeeds(owner)
	for bump := 255; bump >= 0; bump-- {
		a, err := Create(seeds, uint8(bump))
		if err == nil {
			return a, uint8(bump), nil
		}
	}
	return Address{}, 0, ErrNoViableBump
}

// Verify re-derives the address for owner with the stored bump and checks it
// equals got. The stored bump must also be the canonical one, so a record
// cannot be planted under a lower bump.
func Verify(owner identity.Identity, bump uint8, got Address) error {
	want, canonical, err := Find(owner)
	if err != nil {
		return err
	}
	if bump != canonical || !bytes.Equal(want[:], got[:]) {
		return fmt.Errorf("%w: owner %s", common.ErrAddressMismatch, owner)
	}
	return nil
}

// IsOnCurve reports whether b is the compressed encoding of an Ed25519
// point.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func ownerSeeds(owner identity.Identity) [][]byte {
	return [][]byte{[]byte(Seed), owner.Bytes()}
}

// FromBytes copies b into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != len(a) {
		return a, fmt.Errorf("address: %d bytes, want %d", len(b), len(a))
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	b := make([]byte, len(a))
	copy(b, a[:])
	return b
}
