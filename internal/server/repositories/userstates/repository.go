package userstates

import (
	"context"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.UserState) error
	Get(ctx context.Context, addr address.Address) (*models.UserState, error)
	GetForUpdate(ctx context.Context, addr address.Address) (*models.UserState, error)
	Update(ctx context.Context, s *models.UserState) error
	Exists(ctx context.Context, addr address.Address) (bool, error)
}
