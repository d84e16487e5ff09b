package userstates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/dbx"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/server/models"
	"github.com/airvent/subscription/internal/server/subscription"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit.
const uniqueViolation = "23505"

const selectColumns = `address, owner, authority, tier, offchain_points::text, hardware_id, joined_at, bump`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record. A second record for the same owner or
// address fails with common.ErrorAlreadyExists and leaves the first intact.
func (r *PostgresRepository) Create(ctx context.Context, s *models.UserState) error {
	query :=
		`INSERT INTO user_states (address, owner, authority, tier, offchain_points, hardware_id, joined_at, bump)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		s.Address.Bytes(), s.Owner.Bytes(), s.Authority.Bytes(),
		int16(s.Tier), strconv.FormatUint(s.OffchainPoints, 10), s.HardwareID,
		s.JoinedAt, int16(s.Bump))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, addr address.Address) (*models.UserState, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM user_states
		 WHERE address = $1
		 `
	return r.get(ctx, query, addr)
}

// GetForUpdate loads the record and locks its row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, addr address.Address) (*models.UserState, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM user_states
		 WHERE address = $1
		 FOR UPDATE
		 `
	return r.get(ctx, query, addr)
}

func (r *PostgresRepository) get(ctx context.Context, query string, addr address.Address) (*models.UserState, error) {
	var (
		addrBytes, ownerBytes, authorityBytes []byte
		tier, bump                            int16
		points, hardwareID                    string
		joinedAt                              time.Time
	)

	err := r.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(
		&addrBytes, &ownerBytes, &authorityBytes, &tier, &points, &hardwareID, &joinedAt, &bump)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	s := &models.UserState{
		Tier:       models.Tier(tier),
		HardwareID: hardwareID,
		JoinedAt:   joinedAt,
		Bump:       uint8(bump),
	}
	if s.Address, err = address.FromBytes(addrBytes); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}
	if s.Owner, err = identity.FromBytes(ownerBytes); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}
	if s.Authority, err = identity.FromBytes(authorityBytes); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}
	if s.OffchainPoints, err = strconv.ParseUint(points, 10, 64); err != nil {
		return nil, fmt.Errorf("corrupt record: offchain_points %q: %w", points, err)
	}
	if bump < 0 || bump > 255 || !subscription.CheckInvariants(s) {
		return nil, fmt.Errorf("corrupt record at %s", s.Address)
	}

	return s, nil
}

// Update writes the mutable fields back. Owner, authority, joined_at and
// bump are never written after creation.
func (r *PostgresRepository) Update(ctx context.Context, s *models.UserState) error {
	query :=
		`UPDATE user_states SET tier = $2, offchain_points = $3, hardware_id = $4
		 WHERE address = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		s.Address.Bytes(), int16(s.Tier), strconv.FormatUint(s.OffchainPoints, 10), s.HardwareID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, addr address.Address) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM user_states WHERE address = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
