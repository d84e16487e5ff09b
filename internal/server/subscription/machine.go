// Package subscription holds the state machine for UserState records.
//
// Every function takes the current record and the verified signer, checks
// its rules in a fixed order and returns the new record. The input record
// is never modified, so a failed call leaves nothing to roll back.
package subscription

import (
	"math/bits"
	"time"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/server/models"
)

const (
	// MaxSingleEarn caps the points one earn call may credit.
	MaxSingleEarn uint64 = 1000

	// MaxHardwareIDLen is the longest hardware serial, in bytes.
	MaxHardwareIDLen = 64
)

// Event describes a committed transition for off-chain indexers.
type Event struct {
	Operation   identity.Operation
	Actor       identity.Identity
	State       models.UserState
	PointsDelta uint64
}

// NewFree builds the initial record for owner at its derived address.
func NewFree(owner, authority identity.Identity, now time.Time) (*models.UserState, Event, error) {
	addr, bump, err := address.Find(owner)
	if err != nil {
		return nil, Event{}, err
	}
	s := &models.UserState{
		Address:        addr,
		Owner:          owner,
		Authority:      authority,
		Tier:           models.TierFree,
		OffchainPoints: 0,
		HardwareID:     "",
		JoinedAt:       now,
		Bump:           bump,
	}
	return s, Event{Operation: identity.OpCreate, Actor: owner, State: *s}, nil
}

// Earn credits points on behalf of the record's authority.
//
// Checks run tier, amount, signer, overflow; the first failure wins.
func Earn(cur *models.UserState, signer identity.Identity, points uint64) (*models.UserState, Event, error) {
	if cur.Tier != models.TierFree {
		return nil, Event{}, common.ErrAlreadyPremium
	}
	if points == 0 || points > MaxSingleEarn {
		return nil, Event{}, common.ErrInvalidPointsAmount
	}
	if signer != cur.Authority {
		return nil, Event{}, common.ErrUnauthorized
	}
	sum, carry := bits.Add64(cur.OffchainPoints, points, 0)
	if carry != 0 {
		return nil, Event{}, common.ErrPointsOverflow
	}

	next := *cur
	next.OffchainPoints = sum
	return &next, Event{Operation: identity.OpEarn, Actor: signer, State: next, PointsDelta: points}, nil
}

// Upgrade links a hardware node and moves the owner to Premium. Points
// earned while Free are consumed by the upgrade.
func Upgrade(cur *models.UserState, signer identity.Identity, serial string) (*models.UserState, Event, error) {
	if cur.Tier != models.TierFree {
		return nil, Event{}, common.ErrAlreadyPremium
	}
	if err := ValidateHardwareSerial(serial); err != nil {
		return nil, Event{}, err
	}
	if signer != cur.Owner {
		return nil, Event{}, common.ErrUnauthorized
	}

	next := *cur
	next.Tier = models.TierPremium
	next.HardwareID = serial
	next.OffchainPoints = 0
	return &next, Event{Operation: identity.OpUpgrade, Actor: signer, State: next}, nil
}

// Downgrade unlinks the hardware node. Points are left as they are.
func Downgrade(cur *models.UserState, signer identity.Identity) (*models.UserState, Event, error) {
	if cur.Tier != models.TierPremium {
		return nil, Event{}, common.ErrNotPremium
	}
	if signer != cur.Owner {
		return nil, Event{}, common.ErrUnauthorized
	}

	next := *cur
	next.Tier = models.TierFree
	next.HardwareID = ""
	return &next, Event{Operation: identity.OpDowngrade, Actor: signer, State: next}, nil
}

// ValidateHardwareSerial checks the serial is 1..MaxHardwareIDLen bytes.
func ValidateHardwareSerial(serial string) error {
	if len(serial) == 0 || len(serial) > MaxHardwareIDLen {
		return common.ErrInvalidHardwareSerial
	}
	return nil
}

// CheckInvariants reports whether s is a state the machine can produce.
func CheckInvariants(s *models.UserState) bool {
	switch s.Tier {
	case models.TierFree:
		return s.HardwareID == ""
	case models.TierPremium:
		return s.HardwareID != "" && len(s.HardwareID) <= MaxHardwareIDLen
	default:
		return false
	}
}
