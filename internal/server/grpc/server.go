package grpc

import (
	"context"
	"net"

	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/logging"
	"github.com/airvent/subscription/internal/rpc"
	"github.com/airvent/subscription/internal/server/metrics"
	"github.com/airvent/subscription/internal/server/models"
	"google.golang.org/grpc"
)

// SubscriptionService is what the transport needs from the service layer.
type SubscriptionService interface {
	Create(ctx context.Context, owner, authority identity.Identity, userProof, authorityProof string) (*models.UserState, error)
	Earn(ctx context.Context, owner identity.Identity, points uint64, authorityProof string) (*models.UserState, error)
	Upgrade(ctx context.Context, owner identity.Identity, serial, userProof string) (*models.UserState, error)
	Downgrade(ctx context.Context, owner identity.Identity, userProof string) (*models.UserState, error)
	Get(ctx context.Context, owner identity.Identity) (*models.UserState, error)
	Exists(ctx context.Context, owner identity.Identity) (bool, error)
}

type GRPCServer struct {
	rpc.UnimplementedSubscriptionServiceServer
	address       string
	subscriptions SubscriptionService
	metrics       *metrics.Metrics
	logger        logging.Logger
}

// NewGRPCServer builds the server. m may be nil to run without metrics.
func NewGRPCServer(a string, l logging.Logger, ss SubscriptionService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		subscriptions: ss,
		metrics:       m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{}
	if s.metrics != nil {
		interceptors = append(interceptors, s.metrics.UnaryServerInterceptor())
	}
	interceptors = append(interceptors, s.errorInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	rpc.RegisterSubscriptionServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
