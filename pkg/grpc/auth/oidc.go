package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

const defaultRoleClaim = "roles"

var ErrInvalidBearer = errors.New("invalid bearer token")

// IDTokenVerifier is satisfied by *oidc.IDTokenVerifier.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// NewOIDCVerifier discovers the issuer and returns a verifier for tokens
// issued to clientID.
//
//nolint:whitespace // editor/linter issue
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID string) (
	*oidc.IDTokenVerifier, error,
) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuerURL, err)
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// WithOIDCVerifier accepts "Authorization: Bearer" tokens verified by v.
// The roles of the caller are read from roleClaim (default "roles").
func WithOIDCVerifier(v IDTokenVerifier, roleClaim string) Option {
	return func(srv *authInterceptor) {
		if roleClaim == "" {
			roleClaim = defaultRoleClaim
		}
		srv.bearer = &bearerAuthenticator{verifier: v, roleClaim: roleClaim}
	}
}

type bearerAuthenticator struct {
	verifier  IDTokenVerifier
	roleClaim string
}

//nolint:whitespace // editor/linter issue
func (a *bearerAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	raw, ok := strings.CutPrefix(h.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, nil
	}
	token, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBearer, err)
	}
	claims := map[string]any{}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBearer, err)
	}
	name := token.Subject
	if s, ok := claims["preferred_username"].(string); ok && s != "" {
		name = s
	}
	return NewSimpleAuth(name, rolesFromClaim(claims[a.roleClaim])...), nil
}

// rolesFromClaim keeps the known roles of the claim. Callers without any
// known role are viewers.
func rolesFromClaim(v any) []Role {
	var raw []string
	switch c := v.(type) {
	case string:
		raw = strings.Fields(c)
	case []any:
		for _, item := range c {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	ret := []Role{}
	for _, s := range raw {
		switch r := Role(strings.ToLower(s)); r {
		case RoleAdmin, RoleEngineer, RoleViewer:
			ret = append(ret, r)
		}
	}
	if len(ret) == 0 {
		ret = append(ret, RoleViewer)
	}
	return ret
}
