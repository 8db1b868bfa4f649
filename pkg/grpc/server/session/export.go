package session

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

const ExportPattern = "GET /export/sessions/{file}"

// ExportHandler serves the data points of a session as csv download.
// It expects the authentication to be resolved by auth.NewAuthMiddleware.
func (s *sessionServer) ExportHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.pe.HasPermission(auth.FromContext(r.Context()), permission.PermissionRead) {
			http.Error(w, auth.ErrPermissionDenied.Error(), http.StatusForbidden)
			return
		}
		id, err := uuid.FromString(strings.TrimSuffix(r.PathValue("file"), ".csv"))
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		if _, err := s.svc.ExportDataPoints(r.Context(), id, &buf); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, validate.ErrInvalid):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				s.log.Error("export failed", log.ErrorField(err))
				http.Error(w, "export failed", http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=session-%s.csv", id))
		//nolint:errcheck // client may be gone
		w.Write(buf.Bytes())
	})
}
