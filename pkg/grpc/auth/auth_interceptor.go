package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racemetrics/log"
)

const (
	tokenHeader = "api-token"
)

type (
	authInterceptor struct {
		adminToken     string
		engineerToken  string
		anonymousWrite bool
		bearer         *bearerAuthenticator
		authProvider   []AuthenticationProvider
		l              *log.Logger
	}
	Option func(*authInterceptor)
)

func NewAuthInterceptor(opts ...Option) connect.Interceptor {
	return newAuthInterceptor(opts...)
}

// NewAuthMiddleware applies the same authentication to plain http handlers.
func NewAuthMiddleware(next http.Handler, opts ...Option) http.Handler {
	return newAuthInterceptor(opts...).middleware(next)
}

func newAuthInterceptor(opts ...Option) *authInterceptor {
	ret := &authInterceptor{
		l: log.Default().Named("grpc.auth"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	anon := anonViewer
	if ret.anonymousWrite {
		anon = anonEngineer
	}
	ret.authProvider = []AuthenticationProvider{
		&apiKeyAuthenticator{adminToken: ret.adminToken, engineerToken: ret.engineerToken},
	}
	if ret.bearer != nil {
		ret.authProvider = append(ret.authProvider, ret.bearer)
	}
	ret.authProvider = append(ret.authProvider, &anonymousAuthenticator{auth: anon})
	return ret
}

func WithAdminToken(token string) Option {
	return func(srv *authInterceptor) {
		srv.adminToken = token
	}
}

func WithEngineerToken(token string) Option {
	return func(srv *authInterceptor) {
		srv.engineerToken = token
	}
}

// WithAnonymousWrite grants engineer permissions to callers without token.
func WithAnonymousWrite(enabled bool) Option {
	return func(srv *authInterceptor) {
		srv.anonymousWrite = enabled
	}
}

var (
	anonViewer   = NewSimpleAuth("anon", RoleViewer)
	anonEngineer = NewSimpleAuth("anon", RoleEngineer)
)

//nolint:whitespace // can't make both editor and linter happy
func (i *authInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return connect.UnaryFunc(func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		ctx, err := i.handleAuth(ctx, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	})
}

//nolint:lll // better readability
func (i *authInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

//nolint:lll,whitespace // better readability
func (i *authInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return connect.StreamingHandlerFunc(func(
		ctx context.Context,
		conn connect.StreamingHandlerConn,
	) error {
		ctx, err := i.handleAuth(ctx, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	})
}

func (i *authInterceptor) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := i.handleAuth(r.Context(), r.Header)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

//nolint:whitespace // editor/linter issue
func (i *authInterceptor) handleAuth(ctx context.Context, h http.Header) (
	context.Context, error,
) {
	for _, p := range i.authProvider {
		a, err := p.Authenticate(ctx, h)
		if err != nil {
			i.l.Warn("error authenticating", log.ErrorField(err))
			return ctx, connect.NewError(connect.CodeUnauthenticated, err)
		}
		if a != nil {
			return NewContext(ctx, a), nil
		}
	}
	return ctx, nil
}

type (
	anonymousAuthenticator struct {
		auth Authentication
	}
	apiKeyAuthenticator struct {
		adminToken    string
		engineerToken string
	}
)

//nolint:whitespace // editor/linter issue
func (a *anonymousAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	return a.auth, nil
}

//nolint:whitespace // editor/linter issue
func (a *apiKeyAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	token := h.Get(tokenHeader)
	if token == "" {
		return nil, nil
	}
	switch {
	case matches(token, a.adminToken):
		return NewSimpleAuth("admin", RoleAdmin), nil
	case matches(token, a.engineerToken):
		return NewSimpleAuth("engineer", RoleEngineer), nil
	}
	return nil, ErrInvalidToken
}

func matches(given, configured string) bool {
	return configured != "" &&
		subtle.ConstantTimeCompare([]byte(given), []byte(configured)) == 1
}
