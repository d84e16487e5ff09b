package grpc

import (
	"context"

	"github.com/airvent/subscription/internal/rpc"
	"github.com/airvent/subscription/internal/server/models"
)

func toUserState(st *models.UserState) *rpc.UserState {
	return &rpc.UserState{
		Address:        st.Address,
		Owner:          st.Owner,
		Authority:      st.Authority,
		Tier:           uint8(st.Tier),
		OffchainPoints: st.OffchainPoints,
		HardwareID:     st.HardwareID,
		JoinedAtUnix:   st.JoinedAt.Unix(),
		Bump:           st.Bump,
	}
}

func (s *GRPCServer) CreateSubscription(ctx context.Context, req *rpc.CreateSubscriptionRequest) (*rpc.UserState, error) {

	st, err := s.subscriptions.Create(ctx, req.Owner, req.Authority, req.UserProof, req.AuthorityProof)
	if err != nil {
		return nil, err
	}

	return toUserState(st), nil
}

func (s *GRPCServer) EarnPoints(ctx context.Context, req *rpc.EarnPointsRequest) (*rpc.UserState, error) {

	st, err := s.subscriptions.Earn(ctx, req.Owner, req.Points, req.AuthorityProof)
	if err != nil {
		return nil, err
	}

	return toUserState(st), nil
}

func (s *GRPCServer) UpgradeToPremium(ctx context.Context, req *rpc.UpgradeToPremiumRequest) (*rpc.UserState, error) {

	st, err := s.subscriptions.Upgrade(ctx, req.Owner, req.HardwareSerial, req.UserProof)
	if err != nil {
		return nil, err
	}

	return toUserState(st), nil
}

func (s *GRPCServer) DowngradeFromPremium(ctx context.Context, req *rpc.DowngradeFromPremiumRequest) (*rpc.UserState, error) {

	st, err := s.subscriptions.Downgrade(ctx, req.Owner, req.UserProof)
	if err != nil {
		return nil, err
	}

	return toUserState(st), nil
}

func (s *GRPCServer) GetSubscription(ctx context.Context, req *rpc.GetSubscriptionRequest) (*rpc.UserState, error) {

	st, err := s.subscriptions.Get(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	return toUserState(st), nil
}

func (s *GRPCServer) HasSubscription(ctx context.Context, req *rpc.HasSubscriptionRequest) (*rpc.HasSubscriptionResponse, error) {

	ok, err := s.subscriptions.Exists(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	return &rpc.HasSubscriptionResponse{Exists: ok}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {

	return &rpc.PingResponse{Status: "OK"}, nil

}
