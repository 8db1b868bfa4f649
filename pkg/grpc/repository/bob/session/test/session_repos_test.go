package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/session"
	"github.com/mpapenbr/racemetrics/pkg/model"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
)

func TestCreateDefaults(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := session.NewSessionRepository(db)

	s, err := r.Create(context.Background(), &model.Session{Name: "Shakedown"})
	assert.NilError(t, err)
	assert.Equal(t, s.Status, model.SessionActive)
	assert.Equal(t, s.TrackCondition, model.TrackDry)
	assert.Assert(t, s.CarID == nil)
	assert.Assert(t, s.TopSpeed == nil)
	assert.Assert(t, s.EndedAt == nil)
}

func TestEndSession(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := session.NewSessionRepository(db)
	ctx := context.Background()
	car, s := base.CreateSampleSession(db)

	s.Status = model.SessionCompleted
	s.TopSpeed = lo.ToPtr(128.5)
	s.DriverFeedback = "loose on exit"
	s.EndedAt = lo.ToPtr(time.Now())
	updated, err := r.Update(ctx, s)
	assert.NilError(t, err)
	assert.Equal(t, updated.Status, model.SessionCompleted)
	assert.Equal(t, *updated.TopSpeed, 128.5)
	assert.Equal(t, *updated.CarID, car.ID)
	assert.Assert(t, updated.EndedAt != nil)

	active, err := r.Count(ctx, model.SessionActive)
	assert.NilError(t, err)
	assert.Equal(t, active, 0)
	all, err := r.Count(ctx, "")
	assert.NilError(t, err)
	assert.Equal(t, all, 1)
}

func TestLoadAll(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := session.NewSessionRepository(db)
	ctx := context.Background()
	car, first := base.CreateSampleSession(db)
	second, err := r.Create(ctx, &model.Session{Name: "Qualifying", CarID: &car.ID})
	assert.NilError(t, err)
	_, err = r.Create(ctx, &model.Session{Name: "Other car"})
	assert.NilError(t, err)

	got, err := r.LoadAll(ctx, api.SessionFilter{CarID: &car.ID})
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].ID, second.ID)
	assert.Equal(t, got[1].ID, first.ID)

	got, err = r.LoadAll(ctx, api.SessionFilter{Limit: 1})
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
}

func TestDeleteCascades(t *testing.T) {
	pool := testdb.InitTestDB()
	db := base.NewDB(pool)
	r := session.NewSessionRepository(db)
	ctx := context.Background()
	_, s := base.CreateSampleSession(db)

	num, err := r.DeleteByID(ctx, s.ID)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)

	var points int
	err = pool.QueryRow(ctx, "select count(*) from performance_data").Scan(&points)
	assert.NilError(t, err)
	assert.Equal(t, points, 0)

	_, err = r.LoadByID(ctx, s.ID)
	assert.ErrorIs(t, err, api.ErrNoRows)
	num, err = r.DeleteByID(ctx, uuid.Must(uuid.NewV4()))
	assert.NilError(t, err)
	assert.Equal(t, num, 0)
}
