package util

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/trace"
)

const traceIDHeader = "X-Trace-ID"

// NewTraceIDInterceptor reports the id of the active trace to the caller,
// both on success and in the metadata of connect errors.
func NewTraceIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			sc := trace.SpanContextFromContext(ctx)
			if !sc.IsValid() {
				return next(ctx, req)
			}
			traceID := sc.TraceID().String()
			res, err := next(ctx, req)
			if err != nil {
				var ce *connect.Error
				if errors.As(err, &ce) {
					ce.Meta().Set(traceIDHeader, traceID)
				}
				return nil, err
			}
			res.Header().Set(traceIDHeader, traceID)
			return res, nil
		}
	}
}
