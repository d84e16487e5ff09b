package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "airvent.subscription.v1.SubscriptionService"

const (
	CreateSubscriptionMethod   = "/" + ServiceName + "/CreateSubscription"
	EarnPointsMethod           = "/" + ServiceName + "/EarnPoints"
	UpgradeToPremiumMethod     = "/" + ServiceName + "/UpgradeToPremium"
	DowngradeFromPremiumMethod = "/" + ServiceName + "/DowngradeFromPremium"
	GetSubscriptionMethod      = "/" + ServiceName + "/GetSubscription"
	HasSubscriptionMethod      = "/" + ServiceName + "/HasSubscription"
	PingMethod                 = "/" + ServiceName + "/Ping"
)

// SubscriptionServiceServer is the server API of the subscription service.
// Implementations should embed UnimplementedSubscriptionServiceServer.
type SubscriptionServiceServer interface {
	CreateSubscription(context.Context, *CreateSubscriptionRequest) (*UserState, error)
	EarnPoints(context.Context, *EarnPointsRequest) (*UserState, error)
	UpgradeToPremium(context.Context, *UpgradeToPremiumRequest) (*UserState, error)
	DowngradeFromPremium(context.Context, *DowngradeFromPremiumRequest) (*UserState, error)
	GetSubscription(context.Context, *GetSubscriptionRequest) (*UserState, error)
	HasSubscription(context.Context, *HasSubscriptionRequest) (*HasSubscriptionResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

type UnimplementedSubscriptionServiceServer struct{}

func (UnimplementedSubscriptionServiceServer) CreateSubscription(context.Context, *CreateSubscriptionRequest) (*UserState, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSubscription not implemented")
}
func (UnimplementedSubscriptionServiceServer) EarnPoints(context.Context, *EarnPointsRequest) (*UserState, error) {
	return nil, status.Error(codes.Unimplemented, "method EarnPoints not implemented")
}
func (UnimplementedSubscriptionServiceServer) UpgradeToPremium(context.Context, *UpgradeToPremiumRequest) (*UserState, error) {
	return nil, status.Error(codes.Unimplemented, "method UpgradeToPremium not implemented")
}
func (UnimplementedSubscriptionServiceServer) DowngradeFromPremium(context.Context, *DowngradeFromPremiumRequest) (*UserState, error) {
	return nil, status.Error(codes.Unimplemented, "method DowngradeFromPremium not implemented")
}
func (UnimplementedSubscriptionServiceServer) GetSubscription(context.Context, *GetSubscriptionRequest) (*UserState, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSubscription not implemented")
}
func (UnimplementedSubscriptionServiceServer) HasSubscription(context.Context, *HasSubscriptionRequest) (*HasSubscriptionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HasSubscription not implemented")
}
func (UnimplementedSubscriptionServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterSubscriptionServiceServer(s grpc.ServiceRegistrar, srv SubscriptionServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(SubscriptionServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SubscriptionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SubscriptionServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SubscriptionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateSubscription",
			Handler:    unaryHandler(CreateSubscriptionMethod, SubscriptionServiceServer.CreateSubscription),
		},
		{
			MethodName: "EarnPoints",
			Handler:    unaryHandler(EarnPointsMethod, SubscriptionServiceServer.EarnPoints),
		},
		{
			MethodName: "UpgradeToPremium",
			Handler:    unaryHandler(UpgradeToPremiumMethod, SubscriptionServiceServer.UpgradeToPremium),
		},
		{
			MethodName: "DowngradeFromPremium",
			Handler:    unaryHandler(DowngradeFromPremiumMethod, SubscriptionServiceServer.DowngradeFromPremium),
		},
		{
			MethodName: "GetSubscription",
			Handler:    unaryHandler(GetSubscriptionMethod, SubscriptionServiceServer.GetSubscription),
		},
		{
			MethodName: "HasSubscription",
			Handler:    unaryHandler(HasSubscriptionMethod, SubscriptionServiceServer.HasSubscription),
		},
		{
			MethodName: "Ping",
			Handler:    unaryHandler(PingMethod, SubscriptionServiceServer.Ping),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airvent/subscription/v1/subscription",
}
