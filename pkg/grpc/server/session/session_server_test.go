//nolint:funlen // ok for this test code
package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
	"github.com/mpapenbr/racemetrics/testsupport/testserver"
)

func newTestServer(t *testing.T) (*sessionServer, *model.Car, *model.Session) {
	t.Helper()
	db := base.NewDB(testdb.InitTestDB())
	car, sess := base.CreateSampleSession(db)
	pe, err := permission.NewOpaPermissionEvaluator()
	require.NoError(t, err)
	return NewServer(
		WithService(testserver.NewService(db)),
		WithPermissionEvaluator(pe)), car, sess
}

func proc(method string) string {
	return util.ProcedureName(ServiceName, method)
}

func TestSessionServer(t *testing.T) {
	s, car, sample := newTestServer(t)
	srv := testserver.Start(t, s.Handler)
	ctx := context.Background()
	engineer := testserver.EngineerToken

	points, err := testserver.Client[util.IDRequest, ListDataPointsResponse](
		srv, proc("ListDataPoints"), "").
		CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: sample.ID}))
	require.NoError(t, err)
	assert.Len(t, points.Msg.DataPoints, 3)

	export, err := testserver.Client[util.IDRequest, CSVData](
		srv, proc("ExportDataPoints"), "").
		CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: sample.ID}))
	require.NoError(t, err)
	assert.Equal(t, 3, export.Msg.Rows)
	assert.Contains(t, export.Msg.CSV, "lapTime")

	created, err := testserver.Client[SessionRequest, SessionResponse](
		srv, proc("CreateSession"), engineer).
		CallUnary(ctx, connect.NewRequest(&SessionRequest{Session: model.Session{
			CarID:          &car.ID,
			Name:           "Afternoon practice",
			TrackName:      "Willow Springs",
			TrackCondition: model.TrackDry,
		}}))
	require.NoError(t, err)
	id := created.Msg.Session.ID
	assert.Equal(t, model.SessionActive, created.Msg.Session.Status)

	imported, err := testserver.Client[CSVData, service.ImportResult](
		srv, proc("ImportDataPoints"), engineer).
		CallUnary(ctx, connect.NewRequest(&CSVData{ID: id, CSV: export.Msg.CSV}))
	require.NoError(t, err)
	assert.Equal(t, 3, imported.Msg.Imported)

	logPoint := func() error {
		_, err := testserver.Client[DataPointRequest, DataPointResponse](
			srv, proc("LogDataPoint"), engineer).
			CallUnary(ctx, connect.NewRequest(&DataPointRequest{
				DataPoint: model.PerformanceDataPoint{SessionID: id, LapTime: lo.ToPtr(80.9)},
			}))
		return err
	}
	require.NoError(t, logPoint())

	ended, err := testserver.Client[EndSessionRequest, SessionResponse](
		srv, proc("EndSession"), engineer).
		CallUnary(ctx, connect.NewRequest(&EndSessionRequest{
			ID:                id,
			EndSessionRequest: service.EndSessionRequest{DriverFeedback: "loose in turn 2"},
		}))
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, ended.Msg.Session.Status)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(logPoint()))

	clearData := func(token string) (*connect.Response[ClearDataPointsResponse], error) {
		return testserver.Client[util.IDRequest, ClearDataPointsResponse](
			srv, proc("ClearDataPoints"), token).
			CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: id}))
	}
	_, err = clearData(engineer)
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	cleared, err := clearData(testserver.AdminToken)
	require.NoError(t, err)
	assert.Equal(t, 4, cleared.Msg.Deleted)

	list, err := testserver.Client[ListSessionsRequest, ListSessionsResponse](
		srv, proc("ListSessions"), "").
		CallUnary(ctx, connect.NewRequest(&ListSessionsRequest{
			Status: model.SessionCompleted,
		}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Sessions, 1)
	assert.Equal(t, id, list.Msg.Sessions[0].ID)
}

func TestExportHandler(t *testing.T) {
	s, _, sample := newTestServer(t)
	mux := http.NewServeMux()
	mux.Handle(ExportPattern, auth.NewAuthMiddleware(s.ExportHandler(),
		auth.WithAdminToken(testserver.AdminToken)))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"export", "/export/sessions/" + sample.ID.String() + ".csv", "", http.StatusOK},
		{"bad id", "/export/sessions/nope.csv", "", http.StatusBadRequest},
		{
			"unknown session",
			"/export/sessions/" + uuid.Must(uuid.NewV7()).String() + ".csv",
			"", http.StatusNotFound,
		},
		{
			"bad token",
			"/export/sessions/" + sample.ID.String() + ".csv",
			"wrong", http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, http.NoBody)
			require.NoError(t, err)
			if tt.token != "" {
				req.Header.Set("api-token", tt.token)
			}
			res, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tt.status, res.StatusCode)
			if tt.status == http.StatusOK {
				assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "recordedAt")
			}
		})
	}
}
