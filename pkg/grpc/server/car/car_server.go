package car

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/compliance"
	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const ServiceName = "CarService"

type (
	CarRequest struct {
		Car model.Car `json:"car"`
	}
	CarResponse struct {
		Car *model.Car `json:"car"`
	}
	ListCarsResponse struct {
		Cars []*model.Car `json:"cars"`
	}
	UpdateCarRequest struct {
		ID    uuid.UUID        `json:"id"`
		Patch service.CarPatch `json:"patch"`
	}
	ListRulebooksResponse struct {
		Rulebooks []string `json:"rulebooks"`
		Default   string   `json:"default"`
	}
)

func NewServer(opts ...Option) *carServer {
	ret := &carServer{
		log: log.Default().Named("grpc.car"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*carServer)

func WithService(svc *service.Service) Option {
	return func(srv *carServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *carServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *carServer) {
		srv.tracer = tracer
	}
}

type carServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

func (s *carServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "CreateCar", permission.PermissionWriteCar, s.CreateCar)
	util.Unary(m, "GetCar", permission.PermissionRead, s.GetCar)
	util.Unary(m, "ListCars", permission.PermissionRead, s.ListCars)
	util.Unary(m, "UpdateCar", permission.PermissionWriteCar, s.UpdateCar)
	util.Unary(m, "DeleteCar", permission.PermissionDeleteCar, s.DeleteCar)
	util.Unary(m, "CheckCompliance", permission.PermissionCheckCompliance,
		s.CheckCompliance)
	util.Unary(m, "ListRulebooks", permission.PermissionRead, s.ListRulebooks)
	return m.Handler()
}

func (s *carServer) CreateCar(ctx context.Context, req *CarRequest) (*CarResponse, error) {
	s.log.Debug("CreateCar called", log.String("name", req.Car.Name))
	c, err := s.svc.CreateCar(ctx, &req.Car)
	if err != nil {
		return nil, err
	}
	return &CarResponse{Car: c}, nil
}

func (s *carServer) GetCar(ctx context.Context, req *util.IDRequest) (*CarResponse, error) {
	c, err := s.svc.GetCar(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &CarResponse{Car: c}, nil
}

func (s *carServer) ListCars(ctx context.Context, _ *util.Empty) (*ListCarsResponse, error) {
	cars, err := s.svc.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCarsResponse{Cars: cars}, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *carServer) UpdateCar(
	ctx context.Context, req *UpdateCarRequest,
) (*CarResponse, error) {
	c, err := s.svc.UpdateCar(ctx, req.ID, &req.Patch)
	if err != nil {
		return nil, err
	}
	return &CarResponse{Car: c}, nil
}

func (s *carServer) DeleteCar(ctx context.Context, req *util.IDRequest) (*util.Empty, error) {
	if err := s.svc.DeleteCar(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}

// CheckCompliance falls back to the rulebook configured for the server when
// the request names none.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *carServer) CheckCompliance(
	ctx context.Context, req *service.ComplianceRequest,
) (*compliance.Report, error) {
	if cfg := config.FromContext(ctx); req.Rulebook == "" && cfg != nil {
		req.Rulebook = cfg.DefaultRulebook
	}
	return s.svc.CheckCompliance(ctx, req)
}

//nolint:whitespace // can't make both editor and linter happy
func (s *carServer) ListRulebooks(
	ctx context.Context, _ *util.Empty,
) (*ListRulebooksResponse, error) {
	ret := &ListRulebooksResponse{Rulebooks: s.svc.Rulebooks().Names()}
	if cfg := config.FromContext(ctx); cfg != nil {
		ret.Default = cfg.DefaultRulebook
	}
	return ret, nil
}
