package userstates

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+user_states\s*\(address,\s*owner,\s*authority,\s*tier,\s*offchain_points,\s*hardware_id,\s*joined_at,\s*bump\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*$`
	selectQ = `(?s)^SELECT\s+address,\s*owner,\s*authority,\s*tier,\s*offchain_points::text,\s*hardware_id,\s*joined_at,\s*bump\s+FROM\s+user_states\s+WHERE\s+address\s*=\s*\$1\s*$`
	lockQ   = `(?s)^SELECT\s+address,.*FROM\s+user_states\s+WHERE\s+address\s*=\s*\$1\s+FOR\s+UPDATE\s*$`
	updateQ = `(?s)^UPDATE\s+user_states\s+SET\s+tier\s*=\s*\$2,\s*offchain_points\s*=\s*\$3,\s*hardware_id\s*=\s*\$4\s+WHERE\s+address\s*=\s*\$1\s*$`
	existsQ = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+user_states\s+WHERE\s+address\s*=\s*\$1\)\s*$`
)

var columns = []string{"address", "owner", "authority", "tier", "offchain_points", "hardware_id", "joined_at", "bump"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleState(t *testing.T) *models.UserState {
	t.Helper()
	owner, err := identity.GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	authority, err := identity.GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	addr, bump, err := address.Find(owner.Identity)
	if err != nil {
		t.Fatal(err)
	}
	return &models.UserState{
		Address:        addr,
		Owner:          owner.Identity,
		Authority:      authority.Identity,
		Tier:           models.TierPremium,
		OffchainPoints: 18446744073709551615,
		HardwareID:     "HW-1",
		JoinedAt:       time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Bump:           bump,
	}
}

func rowFor(s *models.UserState, points string) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		s.Address.Bytes(), s.Owner.Bytes(), s.Authority.Bytes(),
		int64(s.Tier), points, s.HardwareID, s.JoinedAt, int64(s.Bump))
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleState(t)
	mock.ExpectExec(insertQ).
		WithArgs(s.Address.Bytes(), s.Owner.Bytes(), s.Authority.Bytes(),
			int16(1), "18446744073709551615", "HW-1", s.JoinedAt, int16(s.Bump)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_states_owner_key"})

	err := repo.Create(context.Background(), sampleState(t))
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleState(t))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleState(t)
	mock.ExpectQuery(selectQ).
		WithArgs(want.Address.Bytes()).
		WillReturnRows(rowFor(want, "18446744073709551615"))

	got, err := repo.Get(context.Background(), want.Address)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleState(t)
	mock.ExpectQuery(lockQ).
		WithArgs(want.Address.Bytes()).
		WillReturnRows(rowFor(want, "18446744073709551615"))

	got, err := repo.GetForUpdate(context.Background(), want.Address)
	if err != nil {
		t.Fatalf("GetForUpdate error: %v", err)
	}
	if got.OffchainPoints != want.OffchainPoints {
		t.Fatalf("points = %d, want %d", got.OffchainPoints, want.OffchainPoints)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), sampleState(t).Address)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), sampleState(t).Address)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_CorruptRows(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.UserState) string
	}{
		{"points not a number", func(s *models.UserState) string { return "lots" }},
		{"points above uint64", func(s *models.UserState) string { return "18446744073709551616" }},
		{"premium without hardware", func(s *models.UserState) string { s.HardwareID = ""; return "0" }},
		{"free with hardware", func(s *models.UserState) string { s.Tier = models.TierFree; return "0" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			s := sampleState(t)
			points := tt.mutate(s)
			mock.ExpectQuery(selectQ).WillReturnRows(rowFor(s, points))

			_, err := repo.Get(context.Background(), s.Address)
			if err == nil || !regexp.MustCompile(`corrupt record`).MatchString(err.Error()) {
				t.Fatalf("expected corrupt record error, got %v", err)
			}
		})
	}
}

func TestGet_ShortOwnerBytes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleState(t)
	mock.ExpectQuery(selectQ).WillReturnRows(sqlmock.NewRows(columns).AddRow(
		s.Address.Bytes(), []byte{1, 2}, s.Authority.Bytes(), int64(1), "0", "HW-1", s.JoinedAt, int64(s.Bump)))

	_, err := repo.Get(context.Background(), s.Address)
	if !errors.Is(err, identity.ErrInvalidIdentity) {
		t.Fatalf("want identity.ErrInvalidIdentity, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleState(t)
	s.Tier = models.TierFree
	s.HardwareID = ""
	s.OffchainPoints = 600

	mock.ExpectExec(updateQ).
		WithArgs(s.Address.Bytes(), int16(0), "600", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), s); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), sampleState(t))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnError(errors.New("db err"))

	err := repo.Update(context.Background(), sampleState(t))
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleState(t)
	mock.ExpectQuery(existsQ).
		WithArgs(s.Address.Bytes()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(existsQ).
		WillReturnError(errors.New("db err"))

	ok, err := repo.Exists(context.Background(), s.Address)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}

	_, err = repo.Exists(context.Background(), s.Address)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
