package grpc

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

func toStatus(err error) error {
	var code codes.Code
	switch common.KindOf(err) {
	case common.ErrInvalidInput:
		code = codes.InvalidArgument
	case common.ErrNotFound:
		code = codes.NotFound
	case common.ErrConflict:
		code = codes.Aborted
	case common.ErrTransientChannel:
		code = codes.Unavailable
	default:
		code = codes.Internal
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Request failed", zap.Error(err))
	}
	return status.Error(code, err.Error())
}

// toStruct converts v through its JSON form so both transports share one
// wire shape.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func listStruct(key string, items any) (*structpb.Struct, error) {
	return toStruct(map[string]any{key: items})
}

func fromStruct(in *structpb.Struct, out any) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return common.InvalidInput("malformed request", "body")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return common.InvalidInput("malformed request", "body")
	}
	return nil
}

func ownerFrom(ctx context.Context) (uuid.UUID, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if values := md.Get(MetadataOwnerID); len(values) > 0 {
			if ownerID, err := uuid.Parse(values[0]); err == nil && ownerID != uuid.Nil {
				return ownerID, nil
			}
		}
	}
	return uuid.Nil, status.Errorf(codes.Unauthenticated, "missing or invalid %s", MetadataOwnerID)
}

// authorize resolves the caller and the greenhouse named by the request. A
// greenhouse of another owner is reported exactly like a missing one.
func (s *GreenhouseServer) authorize(ctx context.Context, req *structpb.Struct) (uuid.UUID, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	greenhouseID, err := uuid.Parse(req.GetFields()["greenhouse_id"].GetStringValue())
	if err != nil {
		return uuid.Nil, toStatus(common.InvalidInput("invalid greenhouse id", "greenhouse_id"))
	}

	if _, err := s.Core.Provisioning.GetGreenhouse(ctx, ownerID, greenhouseID); err != nil {
		return uuid.Nil, toStatus(err)
	}
	return greenhouseID, nil
}

func (s *GreenhouseServer) GetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	greenhouseID, err := s.authorize(ctx, req)
	if err != nil {
		return nil, err
	}

	projected, err := s.Core.Status.ProjectStatus(ctx, greenhouseID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(projected)
}

func (s *GreenhouseServer) ListStatuses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.Core.Status.ListStatuses(ctx, ownerID)
	if err != nil {
		return nil, toStatus(err)
	}
	if statuses == nil {
		statuses = []models.GreenhouseStatus{}
	}
	return listStruct("greenhouses", statuses)
}

func (s *GreenhouseServer) GetSetpoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	greenhouseID, err := s.authorize(ctx, req)
	if err != nil {
		return nil, err
	}

	setpoint, err := s.Core.Setpoint.GetSetpoint(ctx, greenhouseID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(setpoint)
}

type updateSetpointRequest struct {
	Patch models.SetpointPatch `json:"patch"`
}

func (s *GreenhouseServer) UpdateSetpoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	greenhouseID, err := s.authorize(ctx, req)
	if err != nil {
		return nil, err
	}

	var in updateSetpointRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}

	setpoint, err := s.Core.Setpoint.UpdateSetpoint(ctx, greenhouseID, in.Patch)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(setpoint)
}

type getHistoryRequest struct {
	Parameter string `json:"parameter"`
	Limit     int    `json:"limit"`
}

func (s *GreenhouseServer) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	greenhouseID, err := s.authorize(ctx, req)
	if err != nil {
		return nil, err
	}

	var in getHistoryRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}

	points, err := s.Core.History.GetHistory(ctx, greenhouseID, in.Parameter, in.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}
	return listStruct("points", points)
}
