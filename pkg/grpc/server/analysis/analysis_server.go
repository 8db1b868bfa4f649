package analysis

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const ServiceName = "AnalysisService"

type (
	CompareSessionsRequest struct {
		SessionIDs []uuid.UUID `json:"sessionIds"`
	}
	CompareSessionsResponse struct {
		Sessions []analysis.SessionComparison `json:"sessions"`
	}
)

func NewServer(opts ...Option) *analysisServer {
	ret := &analysisServer{
		log: log.Default().Named("grpc.analysis"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*analysisServer)

func WithService(svc *service.Service) Option {
	return func(srv *analysisServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *analysisServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *analysisServer) {
		srv.tracer = tracer
	}
}

type analysisServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

func (s *analysisServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "AnalyzeSession", permission.PermissionRead, s.AnalyzeSession)
	util.Unary(m, "CompareSessions", permission.PermissionRead, s.CompareSessions)
	return m.Handler()
}

//nolint:whitespace // editor/linter issue
func (s *analysisServer) AnalyzeSession(
	ctx context.Context, req *util.IDRequest,
) (*service.SessionReport, error) {
	return s.svc.AnalyzeSession(ctx, req.ID)
}

//nolint:whitespace // editor/linter issue
func (s *analysisServer) CompareSessions(
	ctx context.Context, req *CompareSessionsRequest,
) (*CompareSessionsResponse, error) {
	ret, err := s.svc.CompareSessions(ctx, req.SessionIDs)
	if err != nil {
		return nil, err
	}
	return &CompareSessionsResponse{Sessions: ret}, nil
}
