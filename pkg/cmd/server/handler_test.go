package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/car"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
	"github.com/mpapenbr/racemetrics/testsupport/testserver"
)

func TestHandler(t *testing.T) {
	config.AdminToken = testserver.AdminToken
	config.EngineerToken = ""
	config.AnonymousWrite = true
	config.DashboardCacheTTL = "0s"
	t.Cleanup(func() {
		config.AdminToken = ""
		config.AnonymousWrite = false
	})
	db := base.NewDB(testdb.InitTestDB())
	_, sess := base.CreateSampleSession(db)
	b := events.NewBroadcaster()
	defer b.Close()
	pe, err := permission.NewPermissionEvaluator()
	require.NoError(t, err)
	srv := httptest.NewServer(newHandler(testserver.NewService(db), b, pe))
	defer srv.Close()
	ctx := context.Background()

	t.Run("anonymous write", func(t *testing.T) {
		c := base.SampleCar()
		c.Name = "Second"
		res, err := testserver.Client[car.CarRequest, car.CarResponse](
			srv, util.ProcedureName(car.ServiceName, "CreateCar"), "").
			CallUnary(ctx, connect.NewRequest(&car.CarRequest{Car: *c}))
		require.NoError(t, err)
		assert.Equal(t, "Second", res.Msg.Car.Name)
	})
	t.Run("csv export", func(t *testing.T) {
		res, err := srv.Client().Get(srv.URL + "/export/sessions/" + sess.ID.String() + ".csv")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodOptions,
			srv.URL+util.ProcedureName(car.ServiceName, "ListCars"), http.NoBody)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		res, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	})
}
