package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAuth(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		token   string
		want    string
		roles   []Role
		wantErr bool
	}{
		{name: "anonymous", want: "anon", roles: []Role{RoleViewer}},
		{
			name:  "anonymous write",
			opts:  []Option{WithAnonymousWrite(true)},
			want:  "anon",
			roles: []Role{RoleEngineer},
		},
		{
			name:  "admin",
			opts:  []Option{WithAdminToken("secret"), WithEngineerToken("pit")},
			token: "secret",
			want:  "admin",
			roles: []Role{RoleAdmin},
		},
		{
			name:  "engineer",
			opts:  []Option{WithAdminToken("secret"), WithEngineerToken("pit")},
			token: "pit",
			want:  "engineer",
			roles: []Role{RoleEngineer},
		},
		{
			name:    "unknown token",
			opts:    []Option{WithAdminToken("secret")},
			token:   "guess",
			wantErr: true,
		},
		{
			name:    "unconfigured token does not match empty",
			token:   "x",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newAuthInterceptor(tt.opts...)
			h := http.Header{}
			if tt.token != "" {
				h.Set(tokenHeader, tt.token)
			}
			ctx, err := i.handleAuth(context.Background(), h)
			if tt.wantErr {
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			a := FromContext(ctx)
			assert.Equal(t, tt.want, a.Principal().Name())
			assert.Equal(t, tt.roles, a.Roles())
		})
	}
}

func TestMiddleware(t *testing.T) {
	var seen Authentication
	h := NewAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}), WithAdminToken("secret"))

	req := httptest.NewRequest(http.MethodGet, "/export", http.NoBody)
	req.Header.Set(tokenHeader, "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []Role{RoleAdmin}, seen.Roles())

	req.Header.Set(tokenHeader, "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFromContextDefault(t *testing.T) {
	a := FromContext(context.Background())
	assert.Equal(t, []Role{RoleViewer}, a.Roles())
}
