package util

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
)

func TestCheckClientVersion(t *testing.T) {
	tests := []struct {
		name     string
		toCheck  string
		required string
		want     bool
	}{
		{"no requirement", "0.1.0", "", true},
		{"equal", "v1.2.0", "v1.2.0", true},
		{"newer without prefix", "1.3.0", "v1.2.0", true},
		{"older", "v1.1.9", "1.2.0", false},
		{"invalid", "dev", "v1.2.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckClientVersion(tt.toCheck, tt.required))
		})
	}
}

func TestClientVersionInterceptor(t *testing.T) {
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	}
	call := connect.UnaryFunc(next)
	wrapped := NewClientVersionInterceptor("v1.0.0").WrapUnary(call)

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"missing header passes", "", false},
		{"supported", "1.0.1", false},
		{"outdated", "0.9.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&struct{}{})
			if tt.header != "" {
				req.Header().Set(ClientVersionHeader, tt.header)
			}
			_, err := wrapped(context.Background(), req)
			if tt.wantErr {
				assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
