package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

func (s *Service) ListCategories(ctx context.Context) ([]*model.MetricCategory, error) {
	return s.repos.Category().LoadAll(ctx)
}

//nolint:whitespace // editor/linter issue
func (s *Service) CreateCategory(
	ctx context.Context, c *model.MetricCategory,
) (*model.MetricCategory, error) {
	var errs validate.Errors
	errs.Required("name", c.Name)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	ret, err := s.repos.Category().Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return ret, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Category().DeleteByID(ctx, id)
	return deleted(n, err, "category", id)
}

// SeedDefaults inserts the default categories that do not exist yet and
// returns the number of inserted categories.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range model.DefaultCategories {
			c := model.DefaultCategories[i]
			ok, err := s.repos.Category().Ensure(ctx, &c)
			if err != nil {
				return fmt.Errorf("category %s: %w", c.Name, err)
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("default categories seeded", log.Int("inserted", inserted))
	return inserted, nil
}

func validateMetric(m *model.Metric) error {
	var errs validate.Errors
	errs.Required("name", m.Name)
	if m.CarID.IsNil() {
		errs.Add("carId", "is required")
	}
	if m.CategoryID.IsNil() {
		errs.Add("categoryId", "is required")
	}
	errs.Number("value", &m.Value)
	errs.OneOf("type", string(m.Type),
		string(model.MetricTypePhysical), string(model.MetricTypeElectronic))
	return errs.Err()
}

//nolint:whitespace // editor/linter issue
func (s *Service) RecordMetric(
	ctx context.Context, m *model.Metric,
) (*model.Metric, error) {
	ctx, span := s.span(ctx, "RecordMetric")
	defer span.End()
	if m.Type == "" {
		m.Type = model.MetricTypePhysical
	}
	if err := validateMetric(m); err != nil {
		return nil, err
	}
	var ret *model.Metric
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Car().LoadByID(ctx, m.CarID); err != nil {
			return notFound(err, "car", m.CarID)
		}
		if _, err := s.repos.Category().LoadByID(ctx, m.CategoryID); err != nil {
			return notFound(err, "category", m.CategoryID)
		}
		var err error
		ret, err = s.repos.Metric().Create(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityMetric, events.ActionCreated, ret.ID, ret)
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *Service) ListMetrics(
	ctx context.Context, filter api.MetricFilter,
) ([]*model.Metric, error) {
	return s.repos.Metric().LoadAll(ctx, filter)
}

func (s *Service) DeleteMetric(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Metric().DeleteByID(ctx, id)
	if err := deleted(n, err, "metric", id); err != nil {
		return err
	}
	s.publish(ctx, events.EntityMetric, events.ActionDeleted, id, nil)
	return nil
}

// MetricStats summarizes all recorded values of one metric name of a car.
//
//nolint:whitespace // editor/linter issue
func (s *Service) MetricStats(
	ctx context.Context, carID uuid.UUID, name string,
) (*MetricStats, error) {
	var errs validate.Errors
	errs.Required("name", name)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	items, err := s.repos.Metric().LoadAll(ctx, api.MetricFilter{CarID: &carID, Name: name})
	if err != nil {
		return nil, err
	}
	ret := &MetricStats{CarID: carID, Name: name, Count: len(items)}
	if len(items) == 0 {
		return ret, nil
	}
	ret.Unit = items[0].Unit
	data := stats.Float64Data(lo.Map(items, func(m *model.Metric, _ int) float64 {
		return m.Value
	}))
	ret.Mean = statValue(data.Mean)
	ret.Min = statValue(data.Min)
	ret.Max = statValue(data.Max)
	ret.StdDev = statValue(data.StandardDeviationPopulation)
	return ret, nil
}

func statValue(fn func() (float64, error)) *float64 {
	v, err := fn()
	if err != nil {
		return nil
	}
	return &v
}
