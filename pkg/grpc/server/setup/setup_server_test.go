package setup

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
	"github.com/mpapenbr/racemetrics/testsupport/testserver"
)

func TestSetupServer(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	car := base.CreateSampleCar(db)
	pe, err := permission.NewOpaPermissionEvaluator()
	require.NoError(t, err)
	srv := testserver.Start(t, NewServer(
		WithService(testserver.NewService(db)),
		WithPermissionEvaluator(pe)).Handler)
	proc := func(method string) string {
		return util.ProcedureName(ServiceName, method)
	}
	ctx := context.Background()

	_, err = testserver.Client[SetupRequest, SetupResponse](srv, proc("SaveSetup"),
		testserver.EngineerToken).
		CallUnary(ctx, connect.NewRequest(&SetupRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "name required")

	saved, err := testserver.Client[SetupRequest, SetupResponse](srv, proc("SaveSetup"),
		testserver.EngineerToken).
		CallUnary(ctx, connect.NewRequest(&SetupRequest{Setup: *base.SampleSetup(car)}))
	require.NoError(t, err)
	id := saved.Msg.Setup.ID
	assert.Equal(t, "GM", saved.Msg.Setup.Make)

	list, err := testserver.Client[ListSetupsRequest, ListSetupsResponse](
		srv, proc("ListSetups"), "").
		CallUnary(ctx, connect.NewRequest(&ListSetupsRequest{CarID: &car.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Setups, 1)

	// patches are sent the way web clients send them: unset fields are absent
	updated, err := testserver.Client[map[string]any, SetupResponse](
		srv, proc("UpdateSetup"), testserver.EngineerToken).
		CallUnary(ctx, connect.NewRequest(&map[string]any{
			"id":    id.String(),
			"patch": map[string]any{"name": "Qualifying"},
		}))
	require.NoError(t, err)
	assert.Equal(t, "Qualifying", updated.Msg.Setup.Name)
	assert.Equal(t, "Camaro", updated.Msg.Setup.Model)

	del := func(token string) error {
		_, err := testserver.Client[util.IDRequest, util.Empty](
			srv, proc("DeleteSetup"), token).
			CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: id}))
		return err
	}
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(del(testserver.EngineerToken)))
	require.NoError(t, del(testserver.AdminToken))

	_, err = testserver.Client[util.IDRequest, SetupResponse](srv, proc("GetSetup"), "").
		CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}
