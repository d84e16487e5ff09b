package identity

import (
	"encoding/hex"
	"fmt"

	"github.com/airvent/subscription/internal/codec"
	"github.com/zeebo/blake3"
)

// Operation names a state-machine operation. A proof is only valid for the
// operation it was minted for.
type Operation string

const (
	OpCreate    Operation = "create"
	OpEarn      Operation = "earn"
	OpUpgrade   Operation = "upgrade"
	OpDowngrade Operation = "downgrade"
)

// Intent is everything a signer agrees to when it signs a proof. The proof
// carries a digest of the intent, so a proof for "earn 10" cannot be
// attached to a request for "earn 1000".
type Intent struct {
	Operation      Operation `cbor:"1,keyasint"`
	Owner          Identity  `cbor:"2,keyasint"`
	Authority      *Identity `cbor:"3,keyasint,omitempty"`
	Points         uint64    `cbor:"4,keyasint,omitempty"`
	HardwareSerial string    `cbor:"5,keyasint,omitempty"`
}

func CreateIntent(owner, authority Identity) Intent {
	return Intent{Operation: OpCreate, Owner: owner, Authority: &authority}
}

func EarnIntent(owner Identity, points uint64) Intent {
	return Intent{Operation: OpEarn, Owner: owner, Points: points}
}

func UpgradeIntent(owner Identity, hardwareSerial string) Intent {
	return Intent{Operation: OpUpgrade, Owner: owner, HardwareSerial: hardwareSerial}
}

func DowngradeIntent(owner Identity) Intent {
	return Intent{Operation: OpDowngrade, Owner: owner}
}

// intentDomainKey is the BLAKE3 key for intent digests: the ASCII domain
// name zero-padded to 32 bytes. Changing it invalidates every outstanding
// proof.
var intentDomainKey = [32]byte{
	'a', 'i', 'r', 'v', 'e', 'n', 't', '.', 's', 'u', 'b', 's', 'c', 'r', 'i', 'p',
	't', 'i', 'o', 'n', '.', 'i', 'n', 't', 'e', 'n', 't', 0, 0, 0, 0, 0,
}

// Digest returns the hex BLAKE3 keyed hash of the deterministic CBOR
// encoding of the intent.
func (in Intent) Digest() (string, error) {
	data, err := codec.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encoding intent: %w", err)
	}
	hasher, err := blake3.NewKeyed(intentDomainKey[:])
	if err != nil {
		panic("identity: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
