package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/lo"
	"github.com/stephenafamo/bob"

	bobRepos "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleCar() *model.Car {
	return &model.Car{
		Name:  "Thunder Bolt",
		Make:  "Chevrolet",
		Model: "Camaro",
		Year:  lo.ToPtr(1969),
		Specs: model.CarSpecs{
			CarNumber: "42",
			Driver:    "Sam Tester",
			Engine: model.EngineSpecs{
				Displacement:     lo.ToPtr(350.0),
				CompressionRatio: lo.ToPtr(9.5),
				FuelSystem:       model.FuelSystemCarburetor,
			},
			Wheels: model.WheelSpecs{
				FrontTireSize:     "225/50R15",
				RearTireSize:      "245/50R15",
				FrontTirePressure: lo.ToPtr(30.0),
				RearTirePressure:  lo.ToPtr(28.0),
			},
			Weight: model.WeightSpecs{TotalWeight: lo.ToPtr(2750.0)},
			Dimensions: model.DimensionSpecs{
				Wheelbase: lo.ToPtr(108.0),
				Height:    lo.ToPtr(51.5),
			},
		},
	}
}

func SampleSession(car *model.Car) *model.Session {
	ret := &model.Session{
		Name:           "Morning practice",
		TrackName:      "Willow Springs",
		TrackCondition: model.TrackDry,
		Status:         model.SessionActive,
		Temperature:    lo.ToPtr(24.0),
	}
	if car != nil {
		ret.CarID = &car.ID
	}
	return ret
}

// SampleDataPoints returns three laps with slightly decreasing lap times.
func SampleDataPoints(session *model.Session) []*model.PerformanceDataPoint {
	base := TestTime()
	laps := []float64{82.4, 81.9, 81.5}
	ret := make([]*model.PerformanceDataPoint, len(laps))
	for i, lap := range laps {
		ret[i] = &model.PerformanceDataPoint{
			SessionID:  session.ID,
			RecordedAt: base.Add(time.Duration(i) * 90 * time.Second),
			LapTime:    lo.ToPtr(lap),
			Engine: model.EngineReading{
				RPM:         lo.ToPtr(6200.0 + float64(i)*50),
				Temperature: lo.ToPtr(195.0 + float64(i)),
			},
			TirePressures: model.Corners{
				FrontLeft:  lo.ToPtr(30.0),
				FrontRight: lo.ToPtr(30.5),
				RearLeft:   lo.ToPtr(29.0),
				RearRight:  lo.ToPtr(29.5),
			},
			FuelConsumption: lo.ToPtr(0.8),
		}
	}
	return ret
}

func SampleSetup(car *model.Car) *model.CarSetup {
	ret := &model.CarSetup{
		Name:  "Baseline",
		Model: "Camaro",
		Parameters: model.SetupParameters{
			Engine: model.EngineSetup{SparkAdvanceBase: lo.ToPtr(32.0)},
			Tires: model.TireSetup{
				Compound: "medium",
				BasePressure: model.Corners{
					FrontLeft:  lo.ToPtr(30.0),
					FrontRight: lo.ToPtr(30.0),
					RearLeft:   lo.ToPtr(28.0),
					RearRight:  lo.ToPtr(28.0),
				},
			},
		},
	}
	if car != nil {
		ret.CarID = &car.ID
	}
	ret.ApplyDefaults()
	return ret
}

func NewDB(pool *pgxpool.Pool) bob.DB {
	return bob.NewDB(stdlib.OpenDBFromPool(pool))
}

// CreateSampleCar stores the sample car.
func CreateSampleCar(db bob.DB) *model.Car {
	ret, err := bobRepos.NewRepositories(db).Car().Create(context.Background(), SampleCar())
	if err != nil {
		log.Fatalf("CreateSampleCar: %v\n", err)
	}
	return ret
}

// CreateSampleSession stores a car, an active session for it and its data points.
func CreateSampleSession(db bob.DB) (*model.Car, *model.Session) {
	ctx := context.Background()
	repos := bobRepos.NewRepositories(db)
	car := CreateSampleCar(db)
	session, err := repos.Session().Create(ctx, SampleSession(car))
	if err != nil {
		log.Fatalf("CreateSampleSession: %v\n", err)
	}
	for _, p := range SampleDataPoints(session) {
		if _, err := repos.DataPoint().Create(ctx, p); err != nil {
			log.Fatalf("CreateSampleSession: %v\n", err)
		}
	}
	return car, session
}

// CreateSampleCategory stores the first default category.
func CreateSampleCategory(db bob.DB) *model.MetricCategory {
	c := model.DefaultCategories[0]
	ret, err := bobRepos.NewRepositories(db).Category().
		Create(context.Background(), &c)
	if err != nil {
		log.Fatalf("CreateSampleCategory: %v\n", err)
	}
	return ret
}
