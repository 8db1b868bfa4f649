package api

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

var ErrNoRows = errors.New("no rows in result set")

type Repositories interface {
	Car() CarRepository
	Category() CategoryRepository
	Metric() MetricRepository
	Session() SessionRepository
	DataPoint() DataPointRepository
	Setup() SetupRepository
	Recommendation() RecommendationRepository
}

type CarRepository interface {
	Create(ctx context.Context, car *model.Car) (*model.Car, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	LoadByVIN(ctx context.Context, vin string) (*model.Car, error)
	LoadAll(ctx context.Context) ([]*model.Car, error)
	Update(ctx context.Context, car *model.Car) (*model.Car, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
	Count(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.MetricCategory) (*model.MetricCategory, error)
	// Ensure creates the category unless one with the same name exists.
	// It returns true if a row was inserted.
	Ensure(ctx context.Context, c *model.MetricCategory) (bool, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.MetricCategory, error)
	LoadAll(ctx context.Context) ([]*model.MetricCategory, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
}

// MetricFilter restricts the metrics returned by LoadAll. Zero values
// do not restrict.
type MetricFilter struct {
	CarID      *uuid.UUID
	CategoryID *uuid.UUID
	Name       string
	Limit      int
}

type MetricRepository interface {
	Create(ctx context.Context, m *model.Metric) (*model.Metric, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.Metric, error)
	// LoadAll returns the matching metrics, newest first.
	LoadAll(ctx context.Context, filter MetricFilter) ([]*model.Metric, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
	Count(ctx context.Context) (int, error)
}

type SessionFilter struct {
	CarID  *uuid.UUID
	Status model.SessionStatus
	Limit  int
}

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) (*model.Session, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// LoadAll returns the matching sessions, newest first.
	LoadAll(ctx context.Context, filter SessionFilter) ([]*model.Session, error)
	Update(ctx context.Context, s *model.Session) (*model.Session, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
	// Count returns the number of sessions, restricted to status if not empty.
	Count(ctx context.Context, status model.SessionStatus) (int, error)
}

type DataPointRepository interface {
	Create(ctx context.Context, p *model.PerformanceDataPoint) (
		*model.PerformanceDataPoint, error,
	)
	// LoadBySession returns the points of a session in recording order.
	LoadBySession(ctx context.Context, sessionID uuid.UUID) (
		[]*model.PerformanceDataPoint, error,
	)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
}

type SetupRepository interface {
	Create(ctx context.Context, s *model.CarSetup) (*model.CarSetup, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.CarSetup, error)
	// LoadAll returns setups ordered by last modification, newest first.
	LoadAll(ctx context.Context, carID *uuid.UUID) ([]*model.CarSetup, error)
	Update(ctx context.Context, s *model.CarSetup) (*model.CarSetup, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
}

type RecommendationFilter struct {
	CarID     *uuid.UUID
	SessionID *uuid.UUID
	Status    model.RecommendationStatus
	Priority  model.Priority
	Limit     int
}

type RecommendationRepository interface {
	Create(ctx context.Context, r *model.Recommendation) (*model.Recommendation, error)
	LoadByID(ctx context.Context, id uuid.UUID) (*model.Recommendation, error)
	// LoadAll returns the matching recommendations, newest first.
	LoadAll(ctx context.Context, filter RecommendationFilter) (
		[]*model.Recommendation, error,
	)
	Update(ctx context.Context, r *model.Recommendation) (*model.Recommendation, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
	// Count returns the number of recommendations, restricted to status if not empty.
	Count(ctx context.Context, status model.RecommendationStatus) (int, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
