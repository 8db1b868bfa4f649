//nolint:funlen // ok for this test code
package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/validate"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
)

//nolint:whitespace // editor/linter issue
func logLaps(
	t *testing.T, f *fixture, sess *model.Session, pressure float64, laps ...float64,
) {
	t.Helper()
	for i, lap := range laps {
		_, err := f.svc.LogDataPoint(context.Background(), &model.PerformanceDataPoint{
			SessionID:  sess.ID,
			RecordedAt: base.TestTime().Add(time.Duration(i) * time.Minute),
			LapTime:    lo.ToPtr(lap),
			TirePressures: model.Corners{
				FrontLeft: lo.ToPtr(pressure), FrontRight: lo.ToPtr(pressure),
			},
		})
		require.NoError(t, err)
	}
}

func TestGenerateForSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.svc.CreateCar(ctx, base.SampleCar())
	require.NoError(t, err)
	sess, err := f.svc.CreateSession(ctx, base.SampleSession(c))
	require.NoError(t, err)
	logLaps(t, f, sess, 26.0, 80, 82, 86, 81)

	report, err := f.svc.AnalyzeSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, report.Suggestions, 2)
	assert.Contains(t, report.Summary, "Best Lap: 1:20.000")
	none, err := f.svc.ListRecommendations(ctx, api.RecommendationFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	recs, err := f.svc.GenerateForSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, model.StatusPending, r.Status)
		assert.Equal(t, sess.ID, *r.SessionID)
		assert.Equal(t, c.ID, *r.CarID)
	}
	assert.Equal(t, "consistency", recs[0].Category)
	assert.Equal(t, model.PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Consider increasing tire pressures for better handling.",
		recs[1].Description)

	high, err := f.svc.ListRecommendations(ctx,
		api.RecommendationFilter{Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, high, 1)

	_, err = f.svc.ListRecommendations(ctx, api.RecommendationFilter{Status: "DONE"})
	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestGenerateForCar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.svc.CreateCar(ctx, base.SampleCar())
	require.NoError(t, err)

	first, err := f.svc.CreateSession(ctx, &model.Session{Name: "first", CarID: &c.ID})
	require.NoError(t, err)
	logLaps(t, f, first, 30, 80, 80.5)
	_, err = f.svc.CreateSession(ctx, &model.Session{Name: "no laps", CarID: &c.ID})
	require.NoError(t, err)
	latest, err := f.svc.CreateSession(ctx, &model.Session{Name: "latest", CarID: &c.ID})
	require.NoError(t, err)
	logLaps(t, f, latest, 30, 85, 90)

	recs, err := f.svc.GenerateForCar(ctx, c.ID)
	require.NoError(t, err)
	titles := lo.Map(recs, func(r *model.Recommendation, _ int) string { return r.Title })
	assert.Equal(t, []string{
		"Optimize Suspension Setup", "Adjust Tire Pressures", "Improve Consistency",
	}, titles)
	for _, r := range recs {
		assert.Equal(t, latest.ID, *r.SessionID)
	}

	_, err = f.svc.GenerateForCar(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRespondToRecommendation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.svc.CreateCar(ctx, base.SampleCar())
	require.NoError(t, err)
	sess, err := f.svc.CreateSession(ctx, base.SampleSession(c))
	require.NoError(t, err)
	logLaps(t, f, sess, 40, 80, 82, 86, 81)
	recs, err := f.svc.GenerateForSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	first, second := recs[0], recs[1]

	_, err = f.svc.RespondToRecommendation(ctx, first.ID, model.StatusImplemented, "", "sam")
	assert.ErrorIs(t, err, validate.ErrInvalid)
	_, err = f.svc.MarkImplemented(ctx, first.ID, "sam")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	accepted, err := f.svc.RespondToRecommendation(ctx, first.ID,
		model.StatusAccepted, "will do", "sam")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	assert.Equal(t, "will do", accepted.Response)
	assert.Equal(t, "sam", accepted.RespondedBy)
	require.NotNil(t, accepted.RespondedAt)

	done, err := f.svc.MarkImplemented(ctx, first.ID, "alex")
	require.NoError(t, err)
	assert.Equal(t, model.StatusImplemented, done.Status)
	assert.Equal(t, "will do", done.Response)

	_, err = f.svc.RespondToRecommendation(ctx, first.ID, model.StatusDenied, "", "sam")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	denied, err := f.svc.RespondToRecommendation(ctx, second.ID,
		model.StatusDenied, "pressures are fine", "sam")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDenied, denied.Status)

	require.NoError(t, f.svc.DeleteRecommendation(ctx, second.ID))
	_, err = f.svc.GetRecommendation(ctx, second.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
