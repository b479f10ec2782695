package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/greenhouse-service/pkg/common"
)

// CreateRateLimitInterceptor throttles the given methods per greenhouse_id.
// Requests without a parsable id pass through and fail in the handler.
func (s *GreenhouseServer) CreateRateLimitInterceptor(methods []string) grpc.UnaryServerInterceptor {
	targetMethods := common.Reducer(methods,
		func(m map[string]bool, method string) map[string]bool {
			m[FullMethod(method)] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethods[info.FullMethod]; ok {
			if r, ok := req.(*structpb.Struct); ok {
				if greenhouseID, err := uuid.Parse(r.GetFields()["greenhouse_id"].GetStringValue()); err == nil {
					if !s.CheckGreenhouseLimiter(greenhouseID) {
						return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
					}
				}
			}
		}

		return handler(ctx, req)
	}
}
