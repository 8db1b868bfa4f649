package setup

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const ServiceName = "SetupService"

type (
	SetupRequest struct {
		Setup model.CarSetup `json:"setup"`
	}
	SetupResponse struct {
		Setup *model.CarSetup `json:"setup"`
	}
	ListSetupsRequest struct {
		CarID *uuid.UUID `json:"carId,omitempty"`
	}
	ListSetupsResponse struct {
		Setups []*model.CarSetup `json:"setups"`
	}
	UpdateSetupRequest struct {
		ID    uuid.UUID          `json:"id"`
		Patch service.SetupPatch `json:"patch"`
	}
)

func NewServer(opts ...Option) *setupServer {
	ret := &setupServer{
		log: log.Default().Named("grpc.setup"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*setupServer)

func WithService(svc *service.Service) Option {
	return func(srv *setupServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *setupServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *setupServer) {
		srv.tracer = tracer
	}
}

type setupServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

func (s *setupServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "SaveSetup", permission.PermissionWriteSetup, s.SaveSetup)
	util.Unary(m, "GetSetup", permission.PermissionRead, s.GetSetup)
	util.Unary(m, "ListSetups", permission.PermissionRead, s.ListSetups)
	util.Unary(m, "UpdateSetup", permission.PermissionWriteSetup, s.UpdateSetup)
	util.Unary(m, "DeleteSetup", permission.PermissionDeleteSetup, s.DeleteSetup)
	return m.Handler()
}

func (s *setupServer) SaveSetup(ctx context.Context, req *SetupRequest) (*SetupResponse, error) {
	ret, err := s.svc.SaveSetup(ctx, &req.Setup)
	if err != nil {
		return nil, err
	}
	return &SetupResponse{Setup: ret}, nil
}

func (s *setupServer) GetSetup(ctx context.Context, req *util.IDRequest) (*SetupResponse, error) {
	ret, err := s.svc.GetSetup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &SetupResponse{Setup: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *setupServer) ListSetups(
	ctx context.Context, req *ListSetupsRequest,
) (*ListSetupsResponse, error) {
	ret, err := s.svc.ListSetups(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	return &ListSetupsResponse{Setups: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *setupServer) UpdateSetup(
	ctx context.Context, req *UpdateSetupRequest,
) (*SetupResponse, error) {
	ret, err := s.svc.UpdateSetup(ctx, req.ID, &req.Patch)
	if err != nil {
		return nil, err
	}
	return &SetupResponse{Setup: ret}, nil
}

func (s *setupServer) DeleteSetup(ctx context.Context, req *util.IDRequest) (*util.Empty, error) {
	if err := s.svc.DeleteSetup(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}
