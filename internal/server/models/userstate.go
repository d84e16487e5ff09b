package models

import (
	"time"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/identity"
)

type Tier uint8

const (
	TierFree Tier = iota
	TierPremium
)

func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierPremium:
		return "premium"
	default:
		return "unknown"
	}
}

// UserState is the single subscription record of one owner. Owner,
// Authority, JoinedAt and Bump never change after creation.
type UserState struct {
	Address        address.Address
	Owner          identity.Identity
	Authority      identity.Identity
	Tier           Tier
	OffchainPoints uint64
	HardwareID     string
	JoinedAt       time.Time
	Bump           uint8
}

func (s *UserState) IsPremium() bool {
	return s.Tier == TierPremium
}
