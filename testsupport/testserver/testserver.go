// Package testserver runs api handlers against a test database.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	bobRepos "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

const (
	AdminToken    = "admin-secret"
	EngineerToken = "engineer-secret"
)

type HandlerFunc func(opts ...connect.HandlerOption) (string, http.Handler)

func NewService(db bob.DB, opts ...service.Option) *service.Service {
	return service.New(
		bobRepos.NewRepositories(db),
		bobRepos.NewTransactionManager(db),
		opts...)
}

// Start serves the handler with token authentication. The server is closed
// when the test ends.
func Start(t *testing.T, handler HandlerFunc, opts ...auth.Option) *httptest.Server {
	t.Helper()
	authOpts := append([]auth.Option{
		auth.WithAdminToken(AdminToken),
		auth.WithEngineerToken(EngineerToken),
	}, opts...)
	mux := http.NewServeMux()
	mux.Handle(handler(connect.WithInterceptors(auth.NewAuthInterceptor(authOpts...))))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// Client calls procedure on srv. An empty token calls anonymously.
//
//nolint:whitespace // editor/linter issue
func Client[Req, Res any](
	srv *httptest.Server, procedure, token string,
) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](
		srv.Client(),
		srv.URL+procedure,
		connect.WithCodec(util.JSONCodec{}),
		connect.WithInterceptors(tokenInterceptor(token)),
	)
}

func tokenInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("api-token", token)
			}
			return next(ctx, req)
		}
	}
}
