package util

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
)

const apiPackage = "racemetrics.v1"

// ServiceMux collects the unary procedures of one api service.
type ServiceMux struct {
	name   string
	mux    *http.ServeMux
	pe     permission.PermissionEvaluator
	tracer trace.Tracer
	opts   []connect.HandlerOption
}

// NewServiceMux creates the mux for service. If tracer is not nil each
// handler call runs in a span named after the procedure.
//
//nolint:whitespace // editor/linter issue
func NewServiceMux(
	service string,
	pe permission.PermissionEvaluator,
	tracer trace.Tracer,
	opts ...connect.HandlerOption,
) *ServiceMux {
	return &ServiceMux{
		name:   apiPackage + "." + service,
		mux:    http.NewServeMux(),
		pe:     pe,
		tracer: tracer,
		opts:   append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...),
	}
}

// startSpan returns a no-op end function when no tracer is set.
//
//nolint:whitespace // editor/linter issue
func (m *ServiceMux) startSpan(
	ctx context.Context, method string,
) (context.Context, func(error)) {
	if m.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := m.tracer.Start(ctx, m.name+"/"+method,
		trace.WithSpanKind(trace.SpanKindServer))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (m *ServiceMux) Procedure(method string) string {
	return "/" + m.name + "/" + method
}

// ProcedureName returns the procedure path of method in service.
func ProcedureName(service, method string) string {
	return "/" + apiPackage + "." + service + "/" + method
}

// Handler returns the path prefix and handler to mount on the server mux.
func (m *ServiceMux) Handler() (string, http.Handler) {
	return "/" + m.name + "/", m.mux
}

// Unary registers fn as procedure method. The caller needs perm, domain
// errors of fn are mapped to connect codes.
//
//nolint:whitespace // editor/linter issue
func Unary[Req, Res any](
	m *ServiceMux, method string, perm permission.Permission,
	fn func(ctx context.Context, req *Req) (*Res, error),
) {
	procedure := m.Procedure(method)
	m.mux.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			if !m.pe.HasPermission(auth.FromContext(ctx), perm) {
				return nil, connect.NewError(connect.CodePermissionDenied,
					auth.ErrPermissionDenied)
			}
			ctx, end := m.startSpan(ctx, method)
			res, err := fn(ctx, req.Msg)
			end(err)
			if err != nil {
				return nil, ToConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		m.opts...))
}

// ServerStream registers fn as server streaming procedure method.
//
//nolint:whitespace // editor/linter issue
func ServerStream[Req, Res any](
	m *ServiceMux, method string, perm permission.Permission,
	fn func(ctx context.Context, req *Req, stream *connect.ServerStream[Res]) error,
) {
	procedure := m.Procedure(method)
	m.mux.Handle(procedure, connect.NewServerStreamHandler(procedure,
		func(
			ctx context.Context, req *connect.Request[Req], stream *connect.ServerStream[Res],
		) error {
			if !m.pe.HasPermission(auth.FromContext(ctx), perm) {
				return connect.NewError(connect.CodePermissionDenied,
					auth.ErrPermissionDenied)
			}
			ctx, end := m.startSpan(ctx, method)
			err := fn(ctx, req.Msg, stream)
			end(err)
			return ToConnectError(err)
		},
		m.opts...))
}

type (
	// IDRequest addresses a single entity.
	IDRequest struct {
		ID uuid.UUID `json:"id"`
	}
	Empty struct{}
)
