//nolint:whitespace // editor/linter issue
package datapoint

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racemetrics/pkg/db/mytypes"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	bobCtx "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/context"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const table = "performance_data"

type (
	repo struct {
		conn bob.Executor
	}
	dataPointRow struct {
		ID                 uuid.UUID                               `db:"id"`
		SessionID          uuid.UUID                               `db:"session_id"`
		RecordedAt         time.Time                               `db:"recorded_at"`
		LapTime            decimal.NullDecimal                     `db:"lap_time"`
		FuelConsumption    decimal.NullDecimal                     `db:"fuel_consumption"`
		Engine             mytypes.JSON[model.EngineReading]       `db:"engine"`
		Suspension         mytypes.JSON[model.SuspensionReading]   `db:"suspension"`
		TirePressures      mytypes.JSON[model.Corners]             `db:"tire_pressures"`
		TireTemperatures   mytypes.JSON[model.Corners]             `db:"tire_temperatures"`
		TreadDepth         mytypes.JSON[model.Corners]             `db:"tread_depth"`
		Transmission       mytypes.JSON[model.TransmissionReading] `db:"transmission"`
		WeightDistribution mytypes.JSON[model.Corners]             `db:"weight_distribution"`
		Environmental      mytypes.JSON[model.EnvironmentReading]  `db:"environmental"`
	}
)

var _ api.DataPointRepository = (*repo)(nil)

func NewDataPointRepository(conn bob.Executor) api.DataPointRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, p *model.PerformanceDataPoint) (
	*model.PerformanceDataPoint, error,
) {
	id := p.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	recordedAt := p.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	q := psql.Insert(
		im.Into(table, "id", "session_id", "recorded_at", "lap_time",
			"fuel_consumption", "engine", "suspension", "tire_pressures",
			"tire_temperatures", "tread_depth", "transmission",
			"weight_distribution", "environmental"),
		im.Values(psql.Arg(id, p.SessionID, recordedAt,
			mytypes.NumericFromPtr(p.LapTime),
			mytypes.NumericFromPtr(p.FuelConsumption),
			mytypes.NewJSON(p.Engine),
			mytypes.NewJSON(p.Suspension),
			mytypes.NewJSON(p.TirePressures),
			mytypes.NewJSON(p.TireTemperatures),
			mytypes.NewJSON(p.TreadDepth),
			mytypes.NewJSON(p.Transmission),
			mytypes.NewJSON(p.WeightDistribution),
			mytypes.NewJSON(p.Environmental))),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[dataPointRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadBySession(ctx context.Context, sessionID uuid.UUID) (
	[]*model.PerformanceDataPoint, error,
) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(sessionID))),
		sm.OrderBy("recorded_at").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[dataPointRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.PerformanceDataPoint, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

// deletes all points of a session, returns number of rows deleted.
func (r *repo) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	q := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("session_id").EQ(psql.Arg(sessionID))),
		dm.Returning("id"),
	)
	return util.Affected(ctx, r.getExecutor(ctx), q)
}

func (r *repo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From(table),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(sessionID))),
	)
	return util.Count(ctx, r.getExecutor(ctx), q)
}

func (d *dataPointRow) toModel() *model.PerformanceDataPoint {
	return &model.PerformanceDataPoint{
		ID:                 d.ID,
		SessionID:          d.SessionID,
		RecordedAt:         d.RecordedAt,
		LapTime:            mytypes.PtrFromNumeric(d.LapTime),
		FuelConsumption:    mytypes.PtrFromNumeric(d.FuelConsumption),
		Engine:             d.Engine.Val,
		Suspension:         d.Suspension.Val,
		TirePressures:      d.TirePressures.Val,
		TireTemperatures:   d.TireTemperatures.Val,
		TreadDepth:         d.TreadDepth.Val,
		Transmission:       d.Transmission.Val,
		WeightDistribution: d.WeightDistribution.Val,
		Environmental:      d.Environmental.Val,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
