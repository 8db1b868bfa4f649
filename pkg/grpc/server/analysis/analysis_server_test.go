package analysis

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/pkg/service"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
	"github.com/mpapenbr/racemetrics/testsupport/testserver"
)

func TestAnalysisServer(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	_, session := base.CreateSampleSession(db)
	pe, err := permission.NewOpaPermissionEvaluator()
	require.NoError(t, err)
	srv := testserver.Start(t, NewServer(
		WithService(testserver.NewService(db)),
		WithPermissionEvaluator(pe)).Handler)
	ctx := context.Background()

	analyze := testserver.Client[util.IDRequest, service.SessionReport](
		srv, util.ProcedureName(ServiceName, "AnalyzeSession"), "")
	res, err := analyze.CallUnary(ctx, connect.NewRequest(&util.IDRequest{ID: session.ID}))
	require.NoError(t, err)
	require.NotNil(t, res.Msg.Analysis)
	require.NotNil(t, res.Msg.Analysis.LapTimes)
	assert.Equal(t, 3, res.Msg.Analysis.LapTimes.Count)
	assert.InDelta(t, 81.5, res.Msg.Analysis.LapTimes.Best, 1e-9)
	assert.InDelta(t, 82.4, res.Msg.Analysis.LapTimes.Worst, 1e-9)
	assert.NotEmpty(t, res.Msg.Summary)

	_, err = analyze.CallUnary(ctx,
		connect.NewRequest(&util.IDRequest{ID: uuid.Must(uuid.NewV7())}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	compare := testserver.Client[CompareSessionsRequest, CompareSessionsResponse](
		srv, util.ProcedureName(ServiceName, "CompareSessions"), "")
	cmpRes, err := compare.CallUnary(ctx, connect.NewRequest(&CompareSessionsRequest{
		SessionIDs: []uuid.UUID{session.ID, session.ID},
	}))
	require.NoError(t, err)
	require.Len(t, cmpRes.Msg.Sessions, 1, "duplicate ids are compared once")
	assert.Equal(t, session.ID.String(), cmpRes.Msg.Sessions[0].SessionID)

	_, err = compare.CallUnary(ctx, connect.NewRequest(&CompareSessionsRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
