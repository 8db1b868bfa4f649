package bob

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/car"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/category"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/datapoint"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/metric"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/recommendation"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/session"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/setup"
)

type bobRepositories struct {
	carRepository            api.CarRepository
	categoryRepository       api.CategoryRepository
	metricRepository         api.MetricRepository
	sessionRepository        api.SessionRepository
	dataPointRepository      api.DataPointRepository
	setupRepository          api.SetupRepository
	recommendationRepository api.RecommendationRepository
}

var _ api.Repositories = (*bobRepositories)(nil)

func NewRepositoriesFromPool(pool *pgxpool.Pool) api.Repositories {
	db := bob.NewDB(stdlib.OpenDBFromPool(pool))
	return NewRepositories(db)
}

func NewRepositories(db bob.DB) api.Repositories {
	return &bobRepositories{
		carRepository:            car.NewCarRepository(db),
		categoryRepository:       category.NewCategoryRepository(db),
		metricRepository:         metric.NewMetricRepository(db),
		sessionRepository:        session.NewSessionRepository(db),
		dataPointRepository:      datapoint.NewDataPointRepository(db),
		setupRepository:          setup.NewSetupRepository(db),
		recommendationRepository: recommendation.NewRecommendationRepository(db),
	}
}

func (r *bobRepositories) Car() api.CarRepository {
	return r.carRepository
}

func (r *bobRepositories) Category() api.CategoryRepository {
	return r.categoryRepository
}

func (r *bobRepositories) Metric() api.MetricRepository {
	return r.metricRepository
}

func (r *bobRepositories) Session() api.SessionRepository {
	return r.sessionRepository
}

func (r *bobRepositories) DataPoint() api.DataPointRepository {
	return r.dataPointRepository
}

func (r *bobRepositories) Setup() api.SetupRepository {
	return r.setupRepository
}

func (r *bobRepositories) Recommendation() api.RecommendationRepository {
	return r.recommendationRepository
}
