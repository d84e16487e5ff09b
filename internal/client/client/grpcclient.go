package client

import (
	"context"
	"fmt"
	"time"

	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.SubscriptionServiceClient
}

// timeoutInterceptor bounds every call by s.timeout unless the caller's
// context already carries an earlier deadline.
func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewSubscriptionClient dials endpointURL lazily; the first RPC opens the
// connection. Extra dial options are appended after the defaults, which
// lets tests swap in a bufconn dialer.
func NewSubscriptionClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.timeoutInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewSubscriptionServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Create(ctx context.Context, owner, authority identity.Identity, userProof, authorityProof string) (*rpc.UserState, error) {
	req := &rpc.CreateSubscriptionRequest{
		Owner:          owner,
		Authority:      authority,
		UserProof:      userProof,
		AuthorityProof: authorityProof,
	}
	resp, err := s.client.CreateSubscription(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Earn(ctx context.Context, owner identity.Identity, points uint64, authorityProof string) (*rpc.UserState, error) {
	req := &rpc.EarnPointsRequest{Owner: owner, Points: points, AuthorityProof: authorityProof}
	resp, err := s.client.EarnPoints(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Upgrade(ctx context.Context, owner identity.Identity, hardwareSerial, userProof string) (*rpc.UserState, error) {
	req := &rpc.UpgradeToPremiumRequest{Owner: owner, HardwareSerial: hardwareSerial, UserProof: userProof}
	resp, err := s.client.UpgradeToPremium(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Downgrade(ctx context.Context, owner identity.Identity, userProof string) (*rpc.UserState, error) {
	req := &rpc.DowngradeFromPremiumRequest{Owner: owner, UserProof: userProof}
	resp, err := s.client.DowngradeFromPremium(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Get(ctx context.Context, owner identity.Identity) (*rpc.UserState, error) {
	resp, err := s.client.GetSubscription(ctx, &rpc.GetSubscriptionRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Exists(ctx context.Context, owner identity.Identity) (bool, error) {
	resp, err := s.client.HasSubscription(ctx, &rpc.HasSubscriptionRequest{Owner: owner})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Exists, nil
}

// mapError keeps domain errors (already *rpc.Error) as they are and folds
// connectivity failures into ErrUnavailable.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return err
	}
}
