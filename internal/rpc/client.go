package rpc

import (
	"context"

	"google.golang.org/grpc"
)

type SubscriptionServiceClient interface {
	CreateSubscription(ctx context.Context, in *CreateSubscriptionRequest, opts ...grpc.CallOption) (*UserState, error)
	EarnPoints(ctx context.Context, in *EarnPointsRequest, opts ...grpc.CallOption) (*UserState, error)
	UpgradeToPremium(ctx context.Context, in *UpgradeToPremiumRequest, opts ...grpc.CallOption) (*UserState, error)
	DowngradeFromPremium(ctx context.Context, in *DowngradeFromPremiumRequest, opts ...grpc.CallOption) (*UserState, error)
	GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*UserState, error)
	HasSubscription(ctx context.Context, in *HasSubscriptionRequest, opts ...grpc.CallOption) (*HasSubscriptionResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type subscriptionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSubscriptionServiceClient(cc grpc.ClientConnInterface) SubscriptionServiceClient {
	return &subscriptionServiceClient{cc: cc}
}

// invoke forces the CBOR codec and converts status errors back to domain
// errors.
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, FromStatus(err)
	}
	return out, nil
}

func (c *subscriptionServiceClient) CreateSubscription(ctx context.Context, in *CreateSubscriptionRequest, opts ...grpc.CallOption) (*UserState, error) {
	return invoke[UserState](ctx, c.cc, CreateSubscriptionMethod, in, opts)
}

func (c *subscriptionServiceClient) EarnPoints(ctx context.Context, in *EarnPointsRequest, opts ...grpc.CallOption) (*UserState, error) {
	return invoke[UserState](ctx, c.cc, EarnPointsMethod, in, opts)
}

func (c *subscriptionServiceClient) UpgradeToPremium(ctx context.Context, in *UpgradeToPremiumRequest, opts ...grpc.CallOption) (*UserState, error) {
	return invoke[UserState](ctx, c.cc, UpgradeToPremiumMethod, in, opts)
}

func (c *subscriptionServiceClient) DowngradeFromPremium(ctx context.Context, in *DowngradeFromPremiumRequest, opts ...grpc.CallOption) (*UserState, error) {
	return invoke[UserState](ctx, c.cc, DowngradeFromPremiumMethod, in, opts)
}

func (c *subscriptionServiceClient) GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*UserState, error) {
	return invoke[UserState](ctx, c.cc, GetSubscriptionMethod, in, opts)
}

func (c *subscriptionServiceClient) HasSubscription(ctx context.Context, in *HasSubscriptionRequest, opts ...grpc.CallOption) (*HasSubscriptionResponse, error) {
	return invoke[HasSubscriptionResponse](ctx, c.cc, HasSubscriptionMethod, in, opts)
}

func (c *subscriptionServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingMethod, in, opts)
}
