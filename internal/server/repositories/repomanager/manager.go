package repomanager

import (
	"context"
	"database/sql"

	"github.com/airvent/subscription/internal/dbx"
	"github.com/airvent/subscription/internal/server/repositories/userstates"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	UserStates(db dbx.DBTX) userstates.Repository
}
