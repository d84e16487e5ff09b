package grpc

import (
	"context"

	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorInterceptor turns domain errors into gRPC statuses. Rejections are
// logged at Info with their reason; anything unexpected is logged at Error
// in full and reaches the caller as a bare Internal.
func (s *GRPCServer) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}

	st := rpc.ToStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", info.FullMethod, "error", err)
	} else {
		s.logger.Info(ctx, "request rejected", "method", info.FullMethod, "reason", common.Reason(err))
	}

	return nil, st
}
