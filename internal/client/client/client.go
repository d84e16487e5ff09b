package client

import (
	"context"

	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/rpc"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Create(ctx context.Context, owner, authority identity.Identity, userProof, authorityProof string) (*rpc.UserState, error)
	Earn(ctx context.Context, owner identity.Identity, points uint64, authorityProof string) (*rpc.UserState, error)
	Upgrade(ctx context.Context, owner identity.Identity, hardwareSerial, userProof string) (*rpc.UserState, error)
	Downgrade(ctx context.Context, owner identity.Identity, userProof string) (*rpc.UserState, error)
	Get(ctx context.Context, owner identity.Identity) (*rpc.UserState, error)
	Exists(ctx context.Context, owner identity.Identity) (bool, error)
}
