//nolint:whitespace // editor/linter issue
package metric

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	bobCtx "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/context"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const table = "metric"

type (
	repo struct {
		conn bob.Executor
	}
	metricRow struct {
		ID         uuid.UUID       `db:"id"`
		CarID      uuid.UUID       `db:"car_id"`
		CategoryID uuid.UUID       `db:"category_id"`
		Name       string          `db:"name"`
		Value      decimal.Decimal `db:"value"`
		Unit       string          `db:"unit"`
		Type       string          `db:"type"`
		Component  string          `db:"component"`
		Notes      string          `db:"notes"`
		RecordedAt time.Time       `db:"recorded_at"`
	}
)

var _ api.MetricRepository = (*repo)(nil)

func NewMetricRepository(conn bob.Executor) api.MetricRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, m *model.Metric) (*model.Metric, error) {
	id := m.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	recordedAt := m.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	q := psql.Insert(
		im.Into(table, "id", "car_id", "category_id", "name", "value", "unit",
			"type", "component", "notes", "recorded_at"),
		im.Values(psql.Arg(id, m.CarID, m.CategoryID, m.Name,
			decimal.NewFromFloat(m.Value), m.Unit, string(m.Type), m.Component,
			m.Notes, recordedAt)),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[metricRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (*model.Metric, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[metricRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context, filter api.MetricFilter) (
	[]*model.Metric, error,
) {
	sqlMods := bob.Mods[*dialect.SelectQuery]{
		sm.Columns("*"),
		sm.From(table),
		sm.OrderBy("recorded_at").Desc(),
		sm.OrderBy("id").Desc(),
	}
	if filter.CarID != nil {
		sqlMods = append(sqlMods, sm.Where(psql.Quote("car_id").EQ(psql.Arg(*filter.CarID))))
	}
	if filter.CategoryID != nil {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.Name != "" {
		sqlMods = append(sqlMods, sm.Where(psql.Quote("name").EQ(psql.Arg(filter.Name))))
	}
	if filter.Limit > 0 {
		sqlMods = append(sqlMods, sm.Limit(filter.Limit))
	}
	rows, err := bob.All(ctx, r.getExecutor(ctx), psql.Select(sqlMods...),
		scan.StructMapper[metricRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Metric, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func (r *repo) DeleteByID(ctx context.Context, id uuid.UUID) (int, error) {
	q := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Returning("id"),
	)
	return util.Affected(ctx, r.getExecutor(ctx), q)
}

func (r *repo) Count(ctx context.Context) (int, error) {
	q := psql.Select(sm.Columns("count(*)"), sm.From(table))
	return util.Count(ctx, r.getExecutor(ctx), q)
}

func (m *metricRow) toModel() *model.Metric {
	return &model.Metric{
		ID:         m.ID,
		CarID:      m.CarID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Value:      m.Value.InexactFloat64(),
		Unit:       m.Unit,
		Type:       model.MetricType(m.Type),
		Component:  m.Component,
		Notes:      m.Notes,
		RecordedAt: m.RecordedAt,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
