//nolint:whitespace // editor/linter issue
package recommendation

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racemetrics/pkg/db/mytypes"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	bobCtx "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/context"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const table = "recommendation"

type (
	repo struct {
		conn bob.Executor
	}
	recommendationRow struct {
		ID             uuid.UUID     `db:"id"`
		CarID          uuid.NullUUID `db:"car_id"`
		SessionID      uuid.NullUUID `db:"session_id"`
		MetricID       uuid.NullUUID `db:"metric_id"`
		Category       string        `db:"category"`
		Title          string        `db:"title"`
		Description    string        `db:"description"`
		Change         string        `db:"change"`
		ExpectedImpact string        `db:"expected_impact"`
		Priority       string        `db:"priority"`
		Status         string        `db:"status"`
		Response       string        `db:"response"`
		RespondedAt    *time.Time    `db:"responded_at"`
		RespondedBy    string        `db:"responded_by"`
		CreatedAt      time.Time     `db:"created_at"`
		UpdatedAt      time.Time     `db:"updated_at"`
	}
)

var _ api.RecommendationRepository = (*repo)(nil)

func NewRecommendationRepository(conn bob.Executor) api.RecommendationRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, rec *model.Recommendation) (
	*model.Recommendation, error,
) {
	id := rec.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	status := rec.Status
	if status == "" {
		status = model.StatusPending
	}
	q := psql.Insert(
		im.Into(table, "id", "car_id", "session_id", "metric_id", "category",
			"title", "description", "change", "expected_impact", "priority",
			"status"),
		im.Values(psql.Arg(id,
			mytypes.NullUUID(rec.CarID),
			mytypes.NullUUID(rec.SessionID),
			mytypes.NullUUID(rec.MetricID),
			rec.Category, rec.Title, rec.Description, rec.Change,
			rec.ExpectedImpact, string(rec.Priority), string(status))),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q,
		scan.StructMapper[recommendationRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (
	*model.Recommendation, error,
) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q,
		scan.StructMapper[recommendationRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context, filter api.RecommendationFilter) (
	[]*model.Recommendation, error,
) {
	sqlMods := bob.Mods[*dialect.SelectQuery]{
		sm.Columns("*"),
		sm.From(table),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	}
	if filter.CarID != nil {
		sqlMods = append(sqlMods, sm.Where(psql.Quote("car_id").EQ(psql.Arg(*filter.CarID))))
	}
	if filter.SessionID != nil {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("session_id").EQ(psql.Arg(*filter.SessionID))))
	}
	if filter.Status != "" {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("status").EQ(psql.Arg(string(filter.Status)))))
	}
	if filter.Priority != "" {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("priority").EQ(psql.Arg(string(filter.Priority)))))
	}
	if filter.Limit > 0 {
		sqlMods = append(sqlMods, sm.Limit(filter.Limit))
	}
	rows, err := bob.All(ctx, r.getExecutor(ctx), psql.Select(sqlMods...),
		scan.StructMapper[recommendationRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Recommendation, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

// Update stores the mutable parts of a recommendation.
func (r *repo) Update(ctx context.Context, rec *model.Recommendation) (
	*model.Recommendation, error,
) {
	q := psql.Update(
		um.Table(table),
		um.SetCol("category").ToArg(rec.Category),
		um.SetCol("title").ToArg(rec.Title),
		um.SetCol("description").ToArg(rec.Description),
		um.SetCol("change").ToArg(rec.Change),
		um.SetCol("expected_impact").ToArg(rec.ExpectedImpact),
		um.SetCol("priority").ToArg(string(rec.Priority)),
		um.SetCol("status").ToArg(string(rec.Status)),
		um.SetCol("response").ToArg(rec.Response),
		um.SetCol("responded_at").ToArg(rec.RespondedAt),
		um.SetCol("responded_by").ToArg(rec.RespondedBy),
		um.SetCol("updated_at").ToArg(time.Now()),
		um.Where(psql.Quote("id").EQ(psql.Arg(rec.ID))),
		um.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q,
		scan.StructMapper[recommendationRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
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

func (r *repo) Count(ctx context.Context, status model.RecommendationStatus) (
	int, error,
) {
	sqlMods := bob.Mods[*dialect.SelectQuery]{
		sm.Columns("count(*)"),
		sm.From(table),
	}
	if status != "" {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("status").EQ(psql.Arg(string(status)))))
	}
	return util.Count(ctx, r.getExecutor(ctx), psql.Select(sqlMods...))
}

func (x *recommendationRow) toModel() *model.Recommendation {
	return &model.Recommendation{
		ID:             x.ID,
		CarID:          mytypes.PtrFromNullUUID(x.CarID),
		SessionID:      mytypes.PtrFromNullUUID(x.SessionID),
		MetricID:       mytypes.PtrFromNullUUID(x.MetricID),
		Category:       x.Category,
		Title:          x.Title,
		Description:    x.Description,
		Change:         x.Change,
		ExpectedImpact: x.ExpectedImpact,
		Priority:       model.Priority(x.Priority),
		Status:         model.RecommendationStatus(x.Status),
		Response:       x.Response,
		RespondedAt:    x.RespondedAt,
		RespondedBy:    x.RespondedBy,
		CreatedAt:      x.CreatedAt,
		UpdatedAt:      x.UpdatedAt,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
