package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const (
	dashboardMetrics         = 10
	dashboardRecommendations = 5
	dashboardSessions        = 5
)

// Dashboard collects the totals and latest entries shown on the start page.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	ctx, span := s.span(ctx, "Dashboard")
	defer span.End()
	ret := &Dashboard{}
	var err error
	count := func(target *int, fn func() (int, error)) {
		if err != nil {
			return
		}
		*target, err = fn()
	}
	count(&ret.Totals.Cars, func() (int, error) { return s.repos.Car().Count(ctx) })
	count(&ret.Totals.Sessions, func() (int, error) {
		return s.repos.Session().Count(ctx, "")
	})
	count(&ret.Totals.ActiveSessions, func() (int, error) {
		return s.repos.Session().Count(ctx, model.SessionActive)
	})
	count(&ret.Totals.Metrics, func() (int, error) { return s.repos.Metric().Count(ctx) })
	count(&ret.Totals.PendingRecommendations, func() (int, error) {
		return s.repos.Recommendation().Count(ctx, model.StatusPending)
	})
	if err != nil {
		return nil, err
	}

	pending, err := s.repos.Recommendation().LoadAll(ctx,
		api.RecommendationFilter{Status: model.StatusPending})
	if err != nil {
		return nil, err
	}
	ret.Totals.HighPriorityPending = lo.CountBy(pending, func(r *model.Recommendation) bool {
		return r.Priority == model.PriorityHigh || r.Priority == model.PriorityCritical
	})
	ret.PendingRecommendations = lo.Slice(pending, 0, dashboardRecommendations)

	if ret.LatestMetrics, err = s.repos.Metric().LoadAll(ctx,
		api.MetricFilter{Limit: dashboardMetrics}); err != nil {
		return nil, err
	}
	if ret.RecentSessions, err = s.repos.Session().LoadAll(ctx,
		api.SessionFilter{Limit: dashboardSessions}); err != nil {
		return nil, err
	}
	return ret, nil
}
