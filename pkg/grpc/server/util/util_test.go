package util

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

func TestToConnectError(t *testing.T) {
	var invalid validate.Errors
	invalid.Add("name", "is required")
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", invalid, connect.CodeInvalidArgument},
		{"not found", fmt.Errorf("car x: %w", service.ErrNotFound), connect.CodeNotFound},
		{"no rows", api.ErrNoRows, connect.CodeNotFound},
		{"transition", model.ErrInvalidTransition, connect.CodeFailedPrecondition},
		{"inactive", service.ErrSessionNotActive, connect.CodeFailedPrecondition},
		{"other", errors.New("boom"), connect.CodeInternal},
		{
			"keeps code",
			connect.NewError(connect.CodeUnavailable, errors.New("down")),
			connect.CodeUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(ToConnectError(tt.err)))
		})
	}
	assert.NoError(t, ToConnectError(nil))
}

func TestJSONCodec(t *testing.T) {
	var c JSONCodec
	var req IDRequest
	require.NoError(t, c.Unmarshal(nil, &req))
	require.Error(t, c.Unmarshal([]byte("{"), &req))
	require.NoError(t, c.Unmarshal(
		[]byte(`{"id":"0190a8e2-5c1b-7d2e-9f3a-4b5c6d7e8f90"}`), &req))
	assert.Equal(t, "0190a8e2-5c1b-7d2e-9f3a-4b5c6d7e8f90", req.ID.String())
	data, err := c.Marshal(&req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"0190a8e2-5c1b-7d2e-9f3a-4b5c6d7e8f90"}`, string(data))
}

func TestProcedureName(t *testing.T) {
	m := NewServiceMux("CarService", nil, nil)
	assert.Equal(t, "/racemetrics.v1.CarService/GetCar", m.Procedure("GetCar"))
	assert.Equal(t, m.Procedure("GetCar"), ProcedureName("CarService", "GetCar"))
	prefix, _ := m.Handler()
	assert.Equal(t, "/racemetrics.v1.CarService/", prefix)
}

func TestAppContextInterceptor(t *testing.T) {
	cfg := &config.Config{DefaultRulebook: "hsra-standards"}
	var got *config.Config
	next := connect.UnaryFunc(func(ctx context.Context, _ connect.AnyRequest) (
		connect.AnyResponse, error,
	) {
		got = config.FromContext(ctx)
		return nil, nil
	})
	_, err := NewAppContextInterceptor(cfg).WrapUnary(next)(
		context.Background(), connect.NewRequest(&Empty{}))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

type allowAll struct{}

func (allowAll) HasPermission(auth.Authentication, permission.Permission) bool {
	return true
}

func TestServiceMuxSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	m := NewServiceMux("CarService", allowAll{}, tp.Tracer("test"))
	Unary(m, "GetCar", permission.PermissionRead,
		func(ctx context.Context, _ *Empty) (*Empty, error) {
			return &Empty{}, nil
		})
	Unary(m, "DeleteCar", permission.PermissionRead,
		func(ctx context.Context, _ *Empty) (*Empty, error) {
			return nil, service.ErrNotFound
		})
	srv := httptest.NewServer(m.mux)
	t.Cleanup(srv.Close)
	call := func(method string) error {
		_, err := connect.NewClient[Empty, Empty](srv.Client(), srv.URL+m.Procedure(method),
			connect.WithCodec(JSONCodec{})).
			CallUnary(context.Background(), connect.NewRequest(&Empty{}))
		return err
	}

	require.NoError(t, call("GetCar"))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(call("DeleteCar")))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "racemetrics.v1.CarService/GetCar", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "racemetrics.v1.CarService/DeleteCar", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
