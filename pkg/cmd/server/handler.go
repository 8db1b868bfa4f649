package server

import (
	"net/http"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"connectrpc.com/otelconnect"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/analysis"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/car"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/dashboard"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/event"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/metric"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/recommendation"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/session"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/setup"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

type apiHandler interface {
	Handler(opts ...connect.HandlerOption) (string, http.Handler)
}

func authOptions(extra ...auth.Option) []auth.Option {
	return append([]auth.Option{
		auth.WithAdminToken(config.AdminToken),
		auth.WithEngineerToken(config.EngineerToken),
		auth.WithAnonymousWrite(config.AnonymousWrite),
	}, extra...)
}

//nolint:funlen,whitespace // service registration
func newHandler(
	svc *service.Service,
	broadcaster *events.Broadcaster,
	pe permission.PermissionEvaluator,
	extraAuth ...auth.Option,
) http.Handler {
	mux := http.NewServeMux()
	authOpts := authOptions(extraAuth...)
	interceptors := []connect.Interceptor{}
	if otel, err := otelconnect.NewInterceptor(); err == nil {
		interceptors = append(interceptors, otel)
	} else {
		log.Warn("otel interceptor not available", log.ErrorField(err))
	}
	interceptors = append(interceptors,
		util.NewTraceIDInterceptor(),
		util.NewClientVersionInterceptor(config.MinClientVersion),
		util.NewAppContextInterceptor(&config.Config{
			DefaultRulebook: config.DefaultRulebook,
			AnonymousWrite:  config.AnonymousWrite,
		}),
		auth.NewAuthInterceptor(authOpts...),
	)
	handlerOpts := connect.WithInterceptors(interceptors...)

	cacheTTL, err := time.ParseDuration(config.DashboardCacheTTL)
	if err != nil {
		log.Warn("Invalid dashboard cache ttl, caching disabled", log.ErrorField(err))
		cacheTTL = 0
	}
	sessionServer := session.NewServer(
		session.WithService(svc),
		session.WithPermissionEvaluator(pe))
	handlers := []apiHandler{
		car.NewServer(car.WithService(svc), car.WithPermissionEvaluator(pe)),
		metric.NewServer(metric.WithService(svc), metric.WithPermissionEvaluator(pe)),
		sessionServer,
		setup.NewServer(setup.WithService(svc), setup.WithPermissionEvaluator(pe)),
		analysis.NewServer(analysis.WithService(svc), analysis.WithPermissionEvaluator(pe)),
		recommendation.NewServer(
			recommendation.WithService(svc),
			recommendation.WithPermissionEvaluator(pe)),
		dashboard.NewServer(
			dashboard.WithService(svc),
			dashboard.WithPermissionEvaluator(pe),
			dashboard.WithCacheTTL(cacheTTL)),
		event.NewServer(
			event.WithBroadcaster(broadcaster),
			event.WithPermissionEvaluator(pe)),
	}
	services := []string{}
	for _, h := range handlers {
		path, handler := h.Handler(handlerOpts)
		log.Debug("registering service", log.String("path", path))
		mux.Handle(path, handler)
		services = append(services, path[1:len(path)-1])
	}
	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker(services...)))
	mux.Handle(session.ExportPattern,
		auth.NewAuthMiddleware(sessionServer.ExportHandler(), authOpts...))

	return h2c.NewHandler(newCORS().Handler(mux), &http2.Server{})
}

func newCORS() *cors.Cors {
	// browser clients (the setup ui) may be served from a different origin
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Accept-Post",
			"Connect-Accept-Encoding",
			"Connect-Content-Encoding",
			"Content-Disposition",
			"Content-Encoding",
			"Grpc-Accept-Encoding",
			"Grpc-Encoding",
			"Grpc-Message",
			"Grpc-Status",
			"Grpc-Status-Details-Bin",
			"X-Trace-ID",
		},
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
