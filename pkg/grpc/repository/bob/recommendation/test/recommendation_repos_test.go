package recommendation_test

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/recommendation"
	"github.com/mpapenbr/racemetrics/pkg/model"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
)

func TestRecommendationLifecycle(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := recommendation.NewRecommendationRepository(db)
	ctx := context.Background()
	car, s := base.CreateSampleSession(db)

	high, err := r.Create(ctx, &model.Recommendation{
		CarID:     &car.ID,
		SessionID: &s.ID,
		Category:  "consistency",
		Title:     "Improve lap consistency",
		Priority:  model.PriorityHigh,
	})
	assert.NilError(t, err)
	assert.Equal(t, high.Status, model.StatusPending)

	_, err = r.Create(ctx, &model.Recommendation{
		CarID:    &car.ID,
		Category: "engine",
		Title:    "Review gearing",
		Priority: model.PriorityLow,
	})
	assert.NilError(t, err)

	assert.NilError(t, high.Respond(model.StatusAccepted, "will try", "crew", time.Now()))
	updated, err := r.Update(ctx, high)
	assert.NilError(t, err)
	assert.Equal(t, updated.Status, model.StatusAccepted)
	assert.Equal(t, updated.Response, "will try")
	assert.Equal(t, updated.RespondedBy, "crew")
	assert.Assert(t, updated.RespondedAt != nil)

	tests := []struct {
		name   string
		filter api.RecommendationFilter
		want   int
	}{
		{name: "all", filter: api.RecommendationFilter{}, want: 2},
		{name: "session", filter: api.RecommendationFilter{SessionID: &s.ID}, want: 1},
		{name: "pending", filter: api.RecommendationFilter{Status: model.StatusPending}, want: 1},
		{name: "priority", filter: api.RecommendationFilter{Priority: model.PriorityCritical}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.LoadAll(ctx, tt.filter)
			assert.NilError(t, err)
			assert.Equal(t, len(got), tt.want)
		})
	}

	pending, err := r.Count(ctx, model.StatusPending)
	assert.NilError(t, err)
	assert.Equal(t, pending, 1)
}
