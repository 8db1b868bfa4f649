package session

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const ServiceName = "SessionService"

type (
	SessionRequest struct {
		Session model.Session `json:"session"`
	}
	SessionResponse struct {
		Session *model.Session `json:"session"`
	}
	ListSessionsRequest struct {
		CarID  *uuid.UUID          `json:"carId,omitempty"`
		Status model.SessionStatus `json:"status,omitempty"`
		Limit  int                 `json:"limit,omitempty"`
	}
	ListSessionsResponse struct {
		Sessions []*model.Session `json:"sessions"`
	}
	UpdateSessionRequest struct {
		ID    uuid.UUID            `json:"id"`
		Patch service.SessionPatch `json:"patch"`
	}
	EndSessionRequest struct {
		ID uuid.UUID `json:"id"`
		service.EndSessionRequest
	}
	DataPointRequest struct {
		DataPoint model.PerformanceDataPoint `json:"dataPoint"`
	}
	DataPointResponse struct {
		DataPoint *model.PerformanceDataPoint `json:"dataPoint"`
	}
	ListDataPointsResponse struct {
		DataPoints []*model.PerformanceDataPoint `json:"dataPoints"`
	}
	ClearDataPointsResponse struct {
		Deleted int `json:"deleted"`
	}
	// CSVData carries a data point export as csv text.
	CSVData struct {
		ID   uuid.UUID `json:"id"`
		Rows int       `json:"rows,omitempty"`
		CSV  string    `json:"csv"`
	}
)

func NewServer(opts ...Option) *sessionServer {
	ret := &sessionServer{
		log: log.Default().Named("grpc.session"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*sessionServer)

func WithService(svc *service.Service) Option {
	return func(srv *sessionServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *sessionServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *sessionServer) {
		srv.tracer = tracer
	}
}

type sessionServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

func (s *sessionServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "CreateSession", permission.PermissionWriteSession, s.CreateSession)
	util.Unary(m, "GetSession", permission.PermissionRead, s.GetSession)
	util.Unary(m, "ListSessions", permission.PermissionRead, s.ListSessions)
	util.Unary(m, "UpdateSession", permission.PermissionWriteSession, s.UpdateSession)
	util.Unary(m, "EndSession", permission.PermissionWriteSession, s.EndSession)
	util.Unary(m, "DeleteSession", permission.PermissionDeleteSession, s.DeleteSession)
	util.Unary(m, "LogDataPoint", permission.PermissionLogData, s.LogDataPoint)
	util.Unary(m, "ListDataPoints", permission.PermissionRead, s.ListDataPoints)
	util.Unary(m, "ClearDataPoints", permission.PermissionClearData, s.ClearDataPoints)
	util.Unary(m, "ExportDataPoints", permission.PermissionRead, s.ExportDataPoints)
	util.Unary(m, "ImportDataPoints", permission.PermissionLogData, s.ImportDataPoints)
	return m.Handler()
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) CreateSession(
	ctx context.Context, req *SessionRequest,
) (*SessionResponse, error) {
	ret, err := s.svc.CreateSession(ctx, &req.Session)
	if err != nil {
		return nil, err
	}
	s.log.Debug("session started",
		log.String("id", ret.ID.String()),
		log.String("name", ret.Name))
	return &SessionResponse{Session: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) GetSession(
	ctx context.Context, req *util.IDRequest,
) (*SessionResponse, error) {
	ret, err := s.svc.GetSession(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Session: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) ListSessions(
	ctx context.Context, req *ListSessionsRequest,
) (*ListSessionsResponse, error) {
	ret, err := s.svc.ListSessions(ctx, api.SessionFilter{
		CarID:  req.CarID,
		Status: req.Status,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &ListSessionsResponse{Sessions: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) UpdateSession(
	ctx context.Context, req *UpdateSessionRequest,
) (*SessionResponse, error) {
	ret, err := s.svc.UpdateSession(ctx, req.ID, &req.Patch)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Session: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) EndSession(
	ctx context.Context, req *EndSessionRequest,
) (*SessionResponse, error) {
	ret, err := s.svc.EndSession(ctx, req.ID, &req.EndSessionRequest)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Session: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) DeleteSession(
	ctx context.Context, req *util.IDRequest,
) (*util.Empty, error) {
	if err := s.svc.DeleteSession(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) LogDataPoint(
	ctx context.Context, req *DataPointRequest,
) (*DataPointResponse, error) {
	ret, err := s.svc.LogDataPoint(ctx, &req.DataPoint)
	if err != nil {
		return nil, err
	}
	return &DataPointResponse{DataPoint: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) ListDataPoints(
	ctx context.Context, req *util.IDRequest,
) (*ListDataPointsResponse, error) {
	ret, err := s.svc.ListDataPoints(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &ListDataPointsResponse{DataPoints: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) ClearDataPoints(
	ctx context.Context, req *util.IDRequest,
) (*ClearDataPointsResponse, error) {
	n, err := s.svc.ClearDataPoints(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &ClearDataPointsResponse{Deleted: n}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) ExportDataPoints(
	ctx context.Context, req *util.IDRequest,
) (*CSVData, error) {
	var buf bytes.Buffer
	n, err := s.svc.ExportDataPoints(ctx, req.ID, &buf)
	if err != nil {
		return nil, err
	}
	return &CSVData{ID: req.ID, Rows: n, CSV: buf.String()}, nil
}

//nolint:whitespace // editor/linter issue
func (s *sessionServer) ImportDataPoints(
	ctx context.Context, req *CSVData,
) (*service.ImportResult, error) {
	ret, err := s.svc.ImportDataPoints(ctx, req.ID, strings.NewReader(req.CSV))
	if err != nil {
		return nil, err
	}
	s.log.Info("imported data points",
		log.String("session", req.ID.String()),
		log.Int("rows", ret.Imported))
	return ret, nil
}
