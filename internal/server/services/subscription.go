package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/clock"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/dbx"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/logging"
	"github.com/airvent/subscription/internal/server/models"
	"github.com/airvent/subscription/internal/server/repositories/repomanager"
	"github.com/airvent/subscription/internal/server/subscription"
)

// SubscriptionService runs the subscription operations against storage.
// Proofs are verified first, then each mutation loads the locked record,
// applies the state machine and writes the result in one transaction.
// Events are logged only after commit.
type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *identity.Verifier
	clock       clock.Clock
	logger      logging.Logger
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager, v *identity.Verifier, c clock.Clock, l logging.Logger) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		repomanager: m,
		verifier:    v,
		clock:       c,
		logger:      l.With("module", "subscription"),
	}
}

// Create opens a Free record for owner. Both the owner and the authority
// must sign the same create intent.
func (s *SubscriptionService) Create(ctx context.Context, owner, authority identity.Identity, userProof, authorityProof string) (*models.UserState, error) {
	intent := identity.CreateIntent(owner, authority)

	userSigner, err := s.verifier.Verify(userProof, intent)
	if err != nil {
		return nil, err
	}
	if userSigner != owner {
		return nil, common.ErrUnauthorized
	}

	authoritySigner, err := s.verifier.Verify(authorityProof, intent)
	if err != nil {
		return nil, err
	}
	if authoritySigner != authority {
		return nil, common.ErrUnauthorized
	}

	state, ev, err := subscription.NewFree(owner, authority, s.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	if err := s.repomanager.UserStates(s.db).Create(ctx, state); err != nil {
		return nil, err
	}

	s.emit(ctx, ev)
	return state, nil
}

// Earn credits points to owner's record. Only the record's authority may
// sign the proof; the owner does not take part.
func (s *SubscriptionService) Earn(ctx context.Context, owner identity.Identity, points uint64, authorityProof string) (*models.UserState, error) {
	signer, err := s.verifier.Verify(authorityProof, identity.EarnIntent(owner, points))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, func(cur *models.UserState) (*models.UserState, subscription.Event, error) {
		return subscription.Earn(cur, signer, points)
	})
}

func (s *SubscriptionService) Upgrade(ctx context.Context, owner identity.Identity, serial, userProof string) (*models.UserState, error) {
	signer, err := s.verifier.Verify(userProof, identity.UpgradeIntent(owner, serial))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, func(cur *models.UserState) (*models.UserState, subscription.Event, error) {
		return subscription.Upgrade(cur, signer, serial)
	})
}

func (s *SubscriptionService) Downgrade(ctx context.Context, owner identity.Identity, userProof string) (*models.UserState, error) {
	signer, err := s.verifier.Verify(userProof, identity.DowngradeIntent(owner))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, func(cur *models.UserState) (*models.UserState, subscription.Event, error) {
		return subscription.Downgrade(cur, signer)
	})
}

// Get returns owner's record. Reads need no proof.
func (s *SubscriptionService) Get(ctx context.Context, owner identity.Identity) (*models.UserState, error) {
	addr, _, err := address.Find(owner)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	state, err := s.repomanager.UserStates(s.db).Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := checkAddress(owner, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Exists reports whether owner has a record.
func (s *SubscriptionService) Exists(ctx context.Context, owner identity.Identity) (bool, error) {
	addr, _, err := address.Find(owner)
	if err != nil {
		return false, fmt.Errorf("derive address: %w", err)
	}
	return s.repomanager.UserStates(s.db).Exists(ctx, addr)
}

type transition func(cur *models.UserState) (*models.UserState, subscription.Event, error)

func (s *SubscriptionService) mutate(ctx context.Context, owner identity.Identity, fn transition) (*models.UserState, error) {
	addr, _, err := address.Find(owner)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	var (
		next *models.UserState
		ev   subscription.Event
	)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserStates(tx)

		cur, err := repo.GetForUpdate(ctx, addr)
		if err != nil {
			return err
		}
		if err := checkAddress(owner, cur); err != nil {
			return err
		}

		next, ev, err = fn(cur)
		if err != nil {
			return err
		}

		return repo.Update(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ev)
	return next, nil
}

// checkAddress re-derives the record address from the owner and the stored
// bump. Nothing loaded from storage is trusted until it matches.
func checkAddress(owner identity.Identity, st *models.UserState) error {
	if st.Owner != owner {
		return fmt.Errorf("%w: record owner %s, requested %s", common.ErrAddressMismatch, st.Owner, owner)
	}
	return address.Verify(st.Owner, st.Bump, st.Address)
}

func (s *SubscriptionService) emit(ctx context.Context, ev subscription.Event) {
	s.logger.Info(ctx, "subscription event",
		"operation", string(ev.Operation),
		"actor", ev.Actor.String(),
		"owner", ev.State.Owner.String(),
		"address", ev.State.Address.String(),
		"tier", ev.State.Tier.String(),
		"offchain_points", ev.State.OffchainPoints,
		"hardware_id", ev.State.HardwareID,
		"points_delta", ev.PointsDelta,
	)
}
