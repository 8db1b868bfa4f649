package util

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racemetrics/pkg/config"
)

// appConfigInjector puts the resolved application config into the request
// context.
type appConfigInjector struct {
	config *config.Config
}

func NewAppContextInterceptor(cfg *config.Config) connect.Interceptor {
	return &appConfigInjector{config: cfg}
}

//nolint:whitespace // better readability
func (i *appConfigInjector) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return next(config.NewContext(ctx, i.config), req)
	}
}

//nolint:whitespace // readablity, editor/linter
func (i *appConfigInjector) WrapStreamingClient(
	next connect.StreamingClientFunc,
) connect.StreamingClientFunc {
	return next
}

//nolint:whitespace // readablity, editor/linter
func (i *appConfigInjector) WrapStreamingHandler(
	next connect.StreamingHandlerFunc,
) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		return next(config.NewContext(ctx, i.config), conn)
	}
}
