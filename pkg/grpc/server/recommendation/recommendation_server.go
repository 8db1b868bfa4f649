package recommendation

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const ServiceName = "RecommendationService"

var errMissingTarget = errors.New("either sessionId or carId is required")

type (
	GenerateRequest struct {
		SessionID *uuid.UUID `json:"sessionId,omitempty"`
		CarID     *uuid.UUID `json:"carId,omitempty"`
	}
	ListRecommendationsRequest struct {
		CarID     *uuid.UUID                 `json:"carId,omitempty"`
		SessionID *uuid.UUID                 `json:"sessionId,omitempty"`
		Status    model.RecommendationStatus `json:"status,omitempty"`
		Priority  model.Priority             `json:"priority,omitempty"`
		Limit     int                        `json:"limit,omitempty"`
	}
	RecommendationsResponse struct {
		Recommendations []*model.Recommendation `json:"recommendations"`
	}
	RecommendationResponse struct {
		Recommendation *model.Recommendation `json:"recommendation"`
	}
	RespondRequest struct {
		ID          uuid.UUID                  `json:"id"`
		Status      model.RecommendationStatus `json:"status"`
		Response    string                     `json:"response,omitempty"`
		RespondedBy string                     `json:"respondedBy,omitempty"`
	}
	ImplementedRequest struct {
		ID          uuid.UUID `json:"id"`
		RespondedBy string    `json:"respondedBy,omitempty"`
	}
)

func NewServer(opts ...Option) *recommendationServer {
	ret := &recommendationServer{
		log: log.Default().Named("grpc.recommendation"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("racemetrics")
	}
	return ret
}

type Option func(*recommendationServer)

func WithService(svc *service.Service) Option {
	return func(srv *recommendationServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *recommendationServer) {
		srv.pe = pe
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *recommendationServer) {
		srv.tracer = tracer
	}
}

type recommendationServer struct {
	svc    *service.Service
	pe     permission.PermissionEvaluator
	log    *log.Logger
	tracer trace.Tracer
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) Handler(
	opts ...connect.HandlerOption,
) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, s.tracer, opts...)
	util.Unary(m, "GenerateRecommendations",
		permission.PermissionGenerateRecommendations, s.GenerateRecommendations)
	util.Unary(m, "ListRecommendations", permission.PermissionRead,
		s.ListRecommendations)
	util.Unary(m, "GetRecommendation", permission.PermissionRead, s.GetRecommendation)
	util.Unary(m, "RespondToRecommendation",
		permission.PermissionRespondRecommendation, s.RespondToRecommendation)
	util.Unary(m, "MarkImplemented",
		permission.PermissionRespondRecommendation, s.MarkImplemented)
	util.Unary(m, "DeleteRecommendation",
		permission.PermissionDeleteRecommendation, s.DeleteRecommendation)
	return m.Handler()
}

// GenerateRecommendations runs the session rules if a session is given,
// otherwise the trend rules for the car.
//
//nolint:whitespace // editor/linter issue
func (s *recommendationServer) GenerateRecommendations(
	ctx context.Context, req *GenerateRequest,
) (*RecommendationsResponse, error) {
	var (
		ret []*model.Recommendation
		err error
	)
	switch {
	case req.SessionID != nil:
		ret, err = s.svc.GenerateForSession(ctx, *req.SessionID)
	case req.CarID != nil:
		ret, err = s.svc.GenerateForCar(ctx, *req.CarID)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errMissingTarget)
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug("recommendations generated", log.Int("count", len(ret)))
	return &RecommendationsResponse{Recommendations: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) ListRecommendations(
	ctx context.Context, req *ListRecommendationsRequest,
) (*RecommendationsResponse, error) {
	ret, err := s.svc.ListRecommendations(ctx, api.RecommendationFilter{
		CarID:     req.CarID,
		SessionID: req.SessionID,
		Status:    req.Status,
		Priority:  req.Priority,
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &RecommendationsResponse{Recommendations: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) GetRecommendation(
	ctx context.Context, req *util.IDRequest,
) (*RecommendationResponse, error) {
	ret, err := s.svc.GetRecommendation(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &RecommendationResponse{Recommendation: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) RespondToRecommendation(
	ctx context.Context, req *RespondRequest,
) (*RecommendationResponse, error) {
	ret, err := s.svc.RespondToRecommendation(ctx, req.ID, req.Status,
		req.Response, responder(ctx, req.RespondedBy))
	if err != nil {
		return nil, err
	}
	return &RecommendationResponse{Recommendation: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) MarkImplemented(
	ctx context.Context, req *ImplementedRequest,
) (*RecommendationResponse, error) {
	ret, err := s.svc.MarkImplemented(ctx, req.ID, responder(ctx, req.RespondedBy))
	if err != nil {
		return nil, err
	}
	return &RecommendationResponse{Recommendation: ret}, nil
}

//nolint:whitespace // editor/linter issue
func (s *recommendationServer) DeleteRecommendation(
	ctx context.Context, req *util.IDRequest,
) (*util.Empty, error) {
	if err := s.svc.DeleteRecommendation(ctx, req.ID); err != nil {
		return nil, err
	}
	return &util.Empty{}, nil
}

// responder falls back to the name of the authenticated principal
func responder(ctx context.Context, given string) string {
	if given != "" {
		return given
	}
	return auth.FromContext(ctx).Principal().Name()
}
