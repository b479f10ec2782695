package grpc

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/greenhouse-service/pkg/core"
)

const ServiceName = "greenhouse.v1.GreenhouseService"

// Method names of GreenhouseService. Requests and responses are
// google.protobuf.Struct documents using the same field names as the REST
// surface.
const (
	MethodGetStatus      = "GetStatus"
	MethodListStatuses   = "ListStatuses"
	MethodGetSetpoint    = "GetSetpoint"
	MethodUpdateSetpoint = "UpdateSetpoint"
	MethodGetHistory     = "GetHistory"
)

// MetadataOwnerID carries the caller identity, like the X-Owner-ID header.
const MetadataOwnerID = "x-owner-id"

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type GreenhouseServiceServer interface {
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStatuses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSetpoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSetpoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type GreenhouseServer struct {
	Core             *core.Core
	RateLimiterStore *core.RateLimiterStore
}

func (s *GreenhouseServer) GetLimiter(greenhouseID uuid.UUID) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(greenhouseID)
	}
}

func (s *GreenhouseServer) CheckGreenhouseLimiter(greenhouseID uuid.UUID) bool {
	limiter := s.GetLimiter(greenhouseID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func unaryMethod(method string, call func(GreenhouseServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GreenhouseServiceServer), ctx, req.(*structpb.Struct))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GreenhouseServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodGetStatus, GreenhouseServiceServer.GetStatus),
		unaryMethod(MethodListStatuses, GreenhouseServiceServer.ListStatuses),
		unaryMethod(MethodGetSetpoint, GreenhouseServiceServer.GetSetpoint),
		unaryMethod(MethodUpdateSetpoint, GreenhouseServiceServer.UpdateSetpoint),
		unaryMethod(MethodGetHistory, GreenhouseServiceServer.GetHistory),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterGreenhouseServiceServer(s grpc.ServiceRegistrar, srv GreenhouseServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// GreenhouseClient calls GreenhouseService over any client connection.
type GreenhouseClient struct {
	cc grpc.ClientConnInterface
}

func NewGreenhouseClient(cc grpc.ClientConnInterface) *GreenhouseClient {
	return &GreenhouseClient{cc: cc}
}

func (c *GreenhouseClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
