package util

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/mod/semver"
)

const ClientVersionHeader = "X-Client-Version"

// CanonicalVersion returns v with a leading "v" or "" if v is no valid semver.
func CanonicalVersion(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// CheckClientVersion reports whether toCheck satisfies the required version.
// An empty required version accepts everything.
func CheckClientVersion(toCheck, required string) bool {
	req := CanonicalVersion(required)
	if req == "" {
		return true
	}
	v := CanonicalVersion(toCheck)
	if v == "" {
		return false
	}
	return semver.Compare(v, req) >= 0
}

// NewClientVersionInterceptor rejects requests of clients that announce a
// version older than minVersion. Requests without the header pass.
func NewClientVersionInterceptor(minVersion string) connect.Interceptor {
	return &clientVersionInterceptor{minVersion: CanonicalVersion(minVersion)}
}

type clientVersionInterceptor struct {
	minVersion string
}

func (i *clientVersionInterceptor) check(h interface{ Get(string) string }) error {
	v := h.Get(ClientVersionHeader)
	if i.minVersion == "" || v == "" {
		return nil
	}
	if CheckClientVersion(v, i.minVersion) {
		return nil
	}
	return connect.NewError(connect.CodeFailedPrecondition,
		fmt.Errorf("client version %q not supported, need at least %s",
			v, i.minVersion))
}

func (i *clientVersionInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := i.check(req.Header()); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

//nolint:whitespace // editor/linter issue
func (i *clientVersionInterceptor) WrapStreamingClient(
	next connect.StreamingClientFunc,
) connect.StreamingClientFunc {
	return next
}

//nolint:whitespace // editor/linter issue
func (i *clientVersionInterceptor) WrapStreamingHandler(
	next connect.StreamingHandlerFunc,
) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if err := i.check(conn.RequestHeader()); err != nil {
			return err
		}
		return next(ctx, conn)
	}
}
