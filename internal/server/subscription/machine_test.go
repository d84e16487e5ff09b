package subscription

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var joined = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type actors struct {
	user, authority, stranger identity.Identity
}

func newActors(t *testing.T) actors {
	t.Helper()
	var ids [3]identity.Identity
	for i := range ids {
		kp, err := identity.GenerateKeypair()
		require.NoError(t, err)
		ids[i] = kp.Identity
	}
	return actors{user: ids[0], authority: ids[1], stranger: ids[2]}
}

func freeState(t *testing.T, a actors) *models.UserState {
	t.Helper()
	s, _, err := NewFree(a.user, a.authority, joined)
	require.NoError(t, err)
	return s
}

func premiumState(t *testing.T, a actors) *models.UserState {
	t.Helper()
	s, _, err := Upgrade(freeState(t, a), a.user, "HW-1")
	require.NoError(t, err)
	return s
}

func TestNewFree(t *testing.T) {
	a := newActors(t)
	s, ev, err := NewFree(a.user, a.authority, joined)
	require.NoError(t, err)

	addr, bump, err := address.Find(a.user)
	require.NoError(t, err)

	want := models.UserState{
		Address:   addr,
		Owner:     a.user,
		Authority: a.authority,
		Tier:      models.TierFree,
		JoinedAt:  joined,
		Bump:      bump,
	}
	if diff := cmp.Diff(want, *s); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, identity.OpCreate, ev.Operation)
	assert.Equal(t, a.user, ev.Actor)
	assert.True(t, CheckInvariants(s))
}

func TestEarn_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		points  uint64
		wantErr error
	}{
		{"zero", 0, common.ErrInvalidPointsAmount},
		{"one", 1, nil},
		{"max", MaxSingleEarn, nil},
		{"max plus one", MaxSingleEarn + 1, common.ErrInvalidPointsAmount},
		{"huge", math.MaxUint64, common.ErrInvalidPointsAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newActors(t)
			cur := freeState(t, a)

			next, ev, err := Earn(cur, a.authority, tt.points)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, next)
				assert.Equal(t, uint64(0), cur.OffchainPoints)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.points, next.OffchainPoints)
			assert.Equal(t, tt.points, ev.PointsDelta)
			assert.Equal(t, a.authority, ev.Actor)
		})
	}
}

func TestEarn_AccumulatesAcceptedDeltas(t *testing.T) {
	a := newActors(t)
	cur := freeState(t, a)

	var total uint64
	for _, p := range []uint64{300, 1, 1000, 0, 999, 1001, 42} {
		next, _, err := Earn(cur, a.authority, p)
		if err != nil {
			continue
		}
		total += p
		cur = next
	}
	assert.Equal(t, total, cur.OffchainPoints)
}

func TestEarn_Overflow(t *testing.T) {
	a := newActors(t)
	cur := freeState(t, a)

	cur.OffchainPoints = math.MaxUint64 - 10
	next, _, err := Earn(cur, a.authority, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), next.OffchainPoints)

	_, _, err = Earn(next, a.authority, 1)
	assert.ErrorIs(t, err, common.ErrPointsOverflow)
	assert.Equal(t, uint64(math.MaxUint64), next.OffchainPoints)

	cur.OffchainPoints = math.MaxUint64 - 10
	_, _, err = Earn(cur, a.authority, 11)
	assert.ErrorIs(t, err, common.ErrPointsOverflow)
}

func TestEarn_OnlyAuthority(t *testing.T) {
	a := newActors(t)
	cur := freeState(t, a)

	_, _, err := Earn(cur, a.user, 10)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, _, err = Earn(cur, a.stranger, 10)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestEarn_ErrorPrecedence(t *testing.T) {
	a := newActors(t)

	// Premium beats bad amount and bad signer.
	_, _, err := Earn(premiumState(t, a), a.stranger, 0)
	assert.ErrorIs(t, err, common.ErrAlreadyPremium)

	// Bad amount beats bad signer.
	_, _, err = Earn(freeState(t, a), a.stranger, 1001)
	assert.ErrorIs(t, err, common.ErrInvalidPointsAmount)

	// Bad signer beats overflow.
	full := freeState(t, a)
	full.OffchainPoints = math.MaxUint64
	_, _, err = Earn(full, a.stranger, 1)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUpgrade(t *testing.T) {
	a := newActors(t)
	cur := freeState(t, a)
	cur.OffchainPoints = 600

	next, ev, err := Upgrade(cur, a.user, "HW-1")
	require.NoError(t, err)

	assert.Equal(t, models.TierPremium, next.Tier)
	assert.Equal(t, "HW-1", next.HardwareID)
	assert.Equal(t, uint64(0), next.OffchainPoints)
	assert.Equal(t, identity.OpUpgrade, ev.Operation)
	assert.True(t, CheckInvariants(next))

	// Input untouched.
	assert.Equal(t, uint64(600), cur.OffchainPoints)
	assert.Equal(t, models.TierFree, cur.Tier)
}

func TestUpgrade_SerialBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		serial  string
		wantErr error
	}{
		{"empty", "", common.ErrInvalidHardwareSerial},
		{"one byte", "x", nil},
		{"64 bytes", strings.Repeat("a", 64), nil},
		{"65 bytes", strings.Repeat("a", 65), common.ErrInvalidHardwareSerial},
		// 22 three-byte runes: 66 bytes but only 22 characters.
		{"multibyte over limit", strings.Repeat("€", 22), common.ErrInvalidHardwareSerial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newActors(t)
			next, _, err := Upgrade(freeState(t, a), a.user, tt.serial)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.serial, next.HardwareID)
		})
	}
}

func TestUpgrade_ErrorPrecedence(t *testing.T) {
	a := newActors(t)

	_, _, err := Upgrade(premiumState(t, a), a.stranger, "")
	assert.ErrorIs(t, err, common.ErrAlreadyPremium)

	_, _, err = Upgrade(freeState(t, a), a.stranger, "")
	assert.ErrorIs(t, err, common.ErrInvalidHardwareSerial)

	_, _, err = Upgrade(freeState(t, a), a.stranger, "HW-1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// The authority cannot act for the owner.
	_, _, err = Upgrade(freeState(t, a), a.authority, "HW-1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestDowngrade(t *testing.T) {
	a := newActors(t)
	cur := premiumState(t, a)
	cur.OffchainPoints = 7

	next, ev, err := Downgrade(cur, a.user)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, next.Tier)
	assert.Equal(t, "", next.HardwareID)
	assert.Equal(t, uint64(7), next.OffchainPoints)
	assert.Equal(t, identity.OpDowngrade, ev.Operation)
	assert.True(t, CheckInvariants(next))
}

func TestDowngrade_Errors(t *testing.T) {
	a := newActors(t)

	_, _, err := Downgrade(freeState(t, a), a.stranger)
	assert.ErrorIs(t, err, common.ErrNotPremium)

	_, _, err = Downgrade(premiumState(t, a), a.stranger)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, _, err = Downgrade(premiumState(t, a), a.authority)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestImmutableFieldsSurviveEveryTransition(t *testing.T) {
	a := newActors(t)
	start := freeState(t, a)

	s, _, err := Earn(start, a.authority, 5)
	require.NoError(t, err)
	s, _, err = Upgrade(s, a.user, "HW-9")
	require.NoError(t, err)
	s, _, err = Downgrade(s, a.user)
	require.NoError(t, err)

	assert.Equal(t, start.Owner, s.Owner)
	assert.Equal(t, start.Authority, s.Authority)
	assert.Equal(t, start.JoinedAt, s.JoinedAt)
	assert.Equal(t, start.Bump, s.Bump)
	assert.Equal(t, start.Address, s.Address)
}

func TestCheckInvariants(t *testing.T) {
	assert.True(t, CheckInvariants(&models.UserState{Tier: models.TierFree}))
	assert.False(t, CheckInvariants(&models.UserState{Tier: models.TierFree, HardwareID: "x"}))
	assert.True(t, CheckInvariants(&models.UserState{Tier: models.TierPremium, HardwareID: "x"}))
	assert.False(t, CheckInvariants(&models.UserState{Tier: models.TierPremium}))
	assert.False(t, CheckInvariants(&models.UserState{Tier: 7}))
}

func TestScenario_EndToEnd(t *testing.T) {
	a := newActors(t)

	s, _, err := NewFree(a.user, a.authority, joined)
	require.NoError(t, err)

	s, _, err = Earn(s, a.authority, 300)
	require.NoError(t, err)
	s, _, err = Earn(s, a.authority, 300)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), s.OffchainPoints)

	s, _, err = Upgrade(s, a.user, "HW-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, s.Tier)
	assert.Equal(t, "HW-1", s.HardwareID)
	assert.Equal(t, uint64(0), s.OffchainPoints)

	_, _, err = Earn(s, a.authority, 100)
	assert.ErrorIs(t, err, common.ErrAlreadyPremium)

	s, _, err = Downgrade(s, a.user)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, s.Tier)
	assert.Equal(t, "", s.HardwareID)
}
