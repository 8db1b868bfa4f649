package dashboard

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/utils/cache"
)

const ServiceName = "DashboardService"

func NewServer(opts ...Option) *dashboardServer {
	ret := &dashboardServer{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.ttl > 0 {
		ret.cache = cache.New(
			cache.WithExpiration[struct{}, service.Dashboard](ret.ttl),
			cache.WithLoader(func(ctx context.Context, _ struct{}) (*service.Dashboard, error) {
				return ret.svc.Dashboard(ctx)
			}))
	}
	return ret
}

type Option func(*dashboardServer)

func WithService(svc *service.Service) Option {
	return func(srv *dashboardServer) {
		srv.svc = svc
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *dashboardServer) {
		srv.pe = pe
	}
}

// WithCacheTTL serves the dashboard from a cache refreshed after d.
// Caching is off for d <= 0.
func WithCacheTTL(d time.Duration) Option {
	return func(srv *dashboardServer) {
		srv.ttl = d
	}
}

type dashboardServer struct {
	svc   *service.Service
	pe    permission.PermissionEvaluator
	ttl   time.Duration
	cache cache.Cache[struct{}, service.Dashboard]
}

func (s *dashboardServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, nil, opts...)
	util.Unary(m, "GetDashboard", permission.PermissionRead, s.GetDashboard)
	return m.Handler()
}

//nolint:whitespace // editor/linter issue
func (s *dashboardServer) GetDashboard(
	ctx context.Context, _ *util.Empty,
) (*service.Dashboard, error) {
	if s.cache != nil {
		return s.cache.Get(ctx, struct{}{})
	}
	return s.svc.Dashboard(ctx)
}
