package auth

import (
	"context"
	"errors"
	"net/http"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleViewer   Role = "viewer"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidToken     = errors.New("invalid api token")
)

type Principal interface {
	Name() string
}

type Authentication interface {
	Principal() Principal
	Roles() []Role
}

// AuthenticationProvider returns nil, nil if it is not responsible for the
// request.
type AuthenticationProvider interface {
	Authenticate(ctx context.Context, h http.Header) (Authentication, error)
}

type (
	SimpleAuth struct {
		principal Principal
		roles     []Role
	}
	SimplePrincipal struct {
		name string
	}
)

func NewSimpleAuth(name string, roles ...Role) *SimpleAuth {
	return &SimpleAuth{principal: &SimplePrincipal{name: name}, roles: roles}
}

func (s *SimplePrincipal) Name() string {
	return s.name
}

func (s *SimpleAuth) Principal() Principal {
	return s.principal
}

func (s *SimpleAuth) Roles() []Role {
	return s.roles
}

type myCtxTypeKey int

func NewContext(ctx context.Context, a Authentication) context.Context {
	return context.WithValue(ctx, myCtxTypeKey(0), a)
}

// FromContext returns the authentication of the request. Requests that did
// not pass the interceptor are treated as anonymous viewers.
func FromContext(ctx context.Context) Authentication {
	if val, ok := ctx.Value(myCtxTypeKey(0)).(Authentication); ok {
		return val
	}
	return anonViewer
}
