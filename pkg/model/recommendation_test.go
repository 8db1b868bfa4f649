package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from RecommendationStatus
		to   RecommendationStatus
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusDenied, true},
		{StatusPending, StatusImplemented, false},
		{StatusAccepted, StatusImplemented, true},
		{StatusAccepted, StatusDenied, false},
		{StatusDenied, StatusAccepted, false},
		{StatusImplemented, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestRespond(t *testing.T) {
	now := time.Date(2024, 4, 28, 11, 10, 12, 0, time.UTC)
	r := &Recommendation{Status: StatusPending}
	require.NoError(t, r.Respond(StatusAccepted, "will try next session", "crew", now))
	assert.Equal(t, StatusAccepted, r.Status)
	assert.Equal(t, "will try next session", r.Response)
	assert.Equal(t, "crew", r.RespondedBy)
	assert.Equal(t, now, *r.RespondedAt)

	err := r.Respond(StatusDenied, "", "crew", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusAccepted, r.Status)
}

func TestApplyDefaults(t *testing.T) {
	s := &CarSetup{Name: "qualifying"}
	s.ApplyDefaults()
	assert.Equal(t, "GM", s.Make)
	assert.Equal(t, "3.8L V6", s.EngineType)
	assert.InDelta(t, 14.7, *s.Parameters.Engine.StoichRatioTarget, 1e-9)
	assert.InDelta(t, 60.0, *s.Parameters.Weight.WeightDistribution, 1e-9)

	keep := 55.0
	s = &CarSetup{Make: "Ford", Parameters: SetupParameters{Weight: WeightSetup{WeightDistribution: &keep}}}
	s.ApplyDefaults()
	assert.Equal(t, "Ford", s.Make)
	assert.InDelta(t, 55.0, *s.Parameters.Weight.WeightDistribution, 1e-9)
}
