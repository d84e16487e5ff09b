package rpc

import (
	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/identity"
)

const (
	TierFree    uint8 = 0
	TierPremium uint8 = 1
)

// UserState is the wire form of a subscription record.
type UserState struct {
	Address        address.Address   `cbor:"1,keyasint"`
	Owner          identity.Identity `cbor:"2,keyasint"`
	Authority      identity.Identity `cbor:"3,keyasint"`
	Tier           uint8             `cbor:"4,keyasint"`
	OffchainPoints uint64            `cbor:"5,keyasint"`
	HardwareID     string            `cbor:"6,keyasint"`
	JoinedAtUnix   int64             `cbor:"7,keyasint"`
	Bump           uint8             `cbor:"8,keyasint"`
}

type CreateSubscriptionRequest struct {
	Owner          identity.Identity `cbor:"1,keyasint"`
	Authority      identity.Identity `cbor:"2,keyasint"`
	UserProof      string            `cbor:"3,keyasint"`
	AuthorityProof string            `cbor:"4,keyasint"`
}

type EarnPointsRequest struct {
	Owner          identity.Identity `cbor:"1,keyasint"`
	Points         uint64            `cbor:"2,keyasint"`
	AuthorityProof string            `cbor:"3,keyasint"`
}

type UpgradeToPremiumRequest struct {
	Owner          identity.Identity `cbor:"1,keyasint"`
	HardwareSerial string            `cbor:"2,keyasint"`
	UserProof      string            `cbor:"3,keyasint"`
}

type DowngradeFromPremiumRequest struct {
	Owner     identity.Identity `cbor:"1,keyasint"`
	UserProof string            `cbor:"2,keyasint"`
}

type GetSubscriptionRequest struct {
	Owner identity.Identity `cbor:"1,keyasint"`
}

type HasSubscriptionRequest struct {
	Owner identity.Identity `cbor:"1,keyasint"`
}

type HasSubscriptionResponse struct {
	Exists bool `cbor:"1,keyasint"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `cbor:"1,keyasint"`
}
