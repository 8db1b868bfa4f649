package util

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

// ToConnectError maps domain errors to connect codes. Errors that already
// carry a code are returned unchanged.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, validate.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, api.ErrNoRows):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, service.ErrSessionNotActive):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
