package metric

import (
	"context"
	"net/http"

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

const ServiceName = "MetricService"

type (
	ListCategoriesResponse struct {
		Categories []*model.MetricCategory `json:"categories"`
	}
	CategoryRequest struct {
		Category model.MetricCategory `json:"category"`
	}
	CategoryResponse struct {
		Category *model.MetricCategory `json:"category"`
	}
	SeedCategoriesResponse struct {
		Inserted int `json:"inserted"`
	}
	MetricRequest struct {
		Metric model.Metric `json:"metric"`
	}
	MetricResponse struct {
		Metric *model.Metric `json:"metric"`
	}
	ListMetricsRequest struct {
		CarID      *uuid.UUID `json:"carId,omitempty"`
		CategoryID *uuid.UUID `json:"categoryId,omitempty"`
		Name       string     `json:"name,omitempty"`
		Limit      int        `json:"limit,omitempty"`
	}
	ListMetricsResponse struct {
		Metrics []*model.Metric `json:"metrics"`
	}
	MetricStatsRequest struct {
		CarID uuid.UUID `json:"carId"`
		Name  string    `json:"name"`
	}
)

func NewServer(opts ...Option) *metricServer {
	ret := &metricServer{
		log: log.Default().Named("grpc.metric"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*metricServer)

func WithService(svc *service.Service) Option {
	return func(srv *metricServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *metricServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *metricServer) {
		srv.tracer = tracer
	}
}

type metricServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

func (s *metricServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "ListCategories", permission.PermissionRead, s.ListCategories)
	util.Unary(m, "CreateCategory", permission.PermissionManageCategories,
		s.CreateCategory)
	util.Unary(m, "DeleteCategory", permission.PermissionManageCategories,
		s.DeleteCategory)
	util.Unary(m, "SeedCategories", permission.PermissionManageCategories,
		s.SeedCategories)
	util.Unary(m, "RecordMetric", permission.PermissionRecordMetric, s.RecordMetric)
	util.Unary(m, "ListMetrics", permission.PermissionRead, s.ListMetrics)
	util.Unary(m, "DeleteMetric", permission.PermissionDeleteMetric, s.DeleteMetric)
	util.Unary(m, "MetricStats", permission.PermissionRead, s.MetricStats)
	return m.Handler()
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) ListCategories(
	ctx context.Context, _ *util.Empty,
) (*ListCategoriesResponse, error) {
	cats, err := s.svc.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCategoriesResponse{Categories: cats}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) CreateCategory(
	ctx context.Context, req *CategoryRequest,
) (*CategoryResponse, error) {
	c, err := s.svc.CreateCategory(ctx, &req.Category)
	if err != nil {
		return nil, err
	}
	return &CategoryResponse{Category: c}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) DeleteCategory(
	ctx context.Context, req *util.IDRequest,
) (*util.Empty, error) {
	if err := s.svc.DeleteCategory(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) SeedCategories(
	ctx context.Context, _ *util.Empty,
) (*SeedCategoriesResponse, error) {
	n, err := s.svc.SeedDefaults(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("seeded categories", log.Int("inserted", n))
	return &SeedCategoriesResponse{Inserted: n}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) RecordMetric(
	ctx context.Context, req *MetricRequest,
) (*MetricResponse, error) {
	ret, err := s.svc.RecordMetric(ctx, &req.Metric)
	if err != nil {
		return nil, err
	}
	return &MetricResponse{Metric: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) ListMetrics(
	ctx context.Context, req *ListMetricsRequest,
) (*ListMetricsResponse, error) {
	ret, err := s.svc.ListMetrics(ctx, api.MetricFilter{
		CarID:      req.CarID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &ListMetricsResponse{Metrics: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) DeleteMetric(
	ctx context.Context, req *util.IDRequest,
) (*util.Empty, error) {
	if err := s.svc.DeleteMetric(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}

//nolint:whitespace // editor/linter issue
func (s *metricServer) MetricStats(
	ctx context.Context, req *MetricStatsRequest,
) (*service.MetricStats, error) {
	return s.svc.MetricStats(ctx, req.CarID, req.Name)
}
