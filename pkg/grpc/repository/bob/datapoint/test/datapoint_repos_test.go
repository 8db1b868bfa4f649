package datapoint_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/datapoint"
	"github.com/mpapenbr/racemetrics/pkg/model"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
)

func TestLoadBySession(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := datapoint.NewDataPointRepository(db)
	ctx := context.Background()
	_, s := base.CreateSampleSession(db)

	got, err := r.LoadBySession(ctx, s.ID)
	assert.NilError(t, err)
	want := base.SampleDataPoints(s)
	assert.Equal(t, len(got), len(want))
	for i := range want {
		assert.DeepEqual(t, got[i], want[i],
			cmpopts.IgnoreFields(model.PerformanceDataPoint{}, "ID", "RecordedAt"))
		assert.Assert(t, got[i].RecordedAt.Equal(want[i].RecordedAt))
	}
	// empty groups survive the jsonb roundtrip as zero values
	assert.Assert(t, cmp.Equal(got[0].Suspension, model.SuspensionReading{}))

	num, err := r.CountBySession(ctx, s.ID)
	assert.NilError(t, err)
	assert.Equal(t, num, 3)
}

func TestDeleteBySession(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := datapoint.NewDataPointRepository(db)
	ctx := context.Background()
	_, s := base.CreateSampleSession(db)

	num, err := r.DeleteBySession(ctx, s.ID)
	assert.NilError(t, err)
	assert.Equal(t, num, 3)

	got, err := r.LoadBySession(ctx, s.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)
}
