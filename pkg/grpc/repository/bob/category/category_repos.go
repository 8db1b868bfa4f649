//nolint:whitespace // editor/linter issue
package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
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

const table = "metric_category"

type (
	repo struct {
		conn bob.Executor
	}
	categoryRow struct {
		ID          uuid.UUID `db:"id"`
		Name        string    `db:"name"`
		Description string    `db:"description"`
		Color       string    `db:"color"`
	}
)

var _ api.CategoryRepository = (*repo)(nil)

func NewCategoryRepository(conn bob.Executor) api.CategoryRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, c *model.MetricCategory) (
	*model.MetricCategory, error,
) {
	row, err := bob.One(ctx, r.getExecutor(ctx), r.insert(c),
		scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) Ensure(ctx context.Context, c *model.MetricCategory) (bool, error) {
	n, err := util.Affected(ctx, r.getExecutor(ctx),
		r.insert(c, im.OnConflict("name").DoNothing()))
	return n > 0, err
}

func (r *repo) insert(
	c *model.MetricCategory,
	mods ...bob.Mod[*dialect.InsertQuery],
) bob.Query {
	id := c.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	sqlMods := bob.Mods[*dialect.InsertQuery]{
		im.Into(table, "id", "name", "description", "color"),
		im.Values(psql.Arg(id, c.Name, c.Description, c.Color)),
		im.Returning("*"),
	}
	sqlMods = append(sqlMods, mods...)
	return psql.Insert(sqlMods...)
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (
	*model.MetricCategory, error,
) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.MetricCategory, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.OrderBy("name").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.MetricCategory, len(rows))
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

func (c *categoryRow) toModel() *model.MetricCategory {
	return &model.MetricCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
