//nolint:whitespace,dupl // editor/linter issue
package car

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
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

const table = "car"

type (
	repo struct {
		conn bob.Executor
	}
	carRow struct {
		ID        uuid.UUID                    `db:"id"`
		Name      string                       `db:"name"`
		Make      string                       `db:"make"`
		Model     string                       `db:"model"`
		Year      *int                         `db:"year"`
		VIN       *string                      `db:"vin"`
		Specs     mytypes.JSON[model.CarSpecs] `db:"specs"`
		CreatedAt time.Time                    `db:"created_at"`
		UpdatedAt time.Time                    `db:"updated_at"`
	}
)

var _ api.CarRepository = (*repo)(nil)

func NewCarRepository(conn bob.Executor) api.CarRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, car *model.Car) (*model.Car, error) {
	id := car.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	q := psql.Insert(
		im.Into(table, "id", "name", "make", "model", "year", "vin", "specs"),
		im.Values(psql.Arg(id, car.Name, car.Make, car.Model, car.Year, car.VIN,
			mytypes.NewJSON(car.Specs))),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[carRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[carRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadByVIN(ctx context.Context, vin string) (*model.Car, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("vin").EQ(psql.Arg(vin))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[carRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Car, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[carRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Car, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

func (r *repo) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	q := psql.Update(
		um.Table(table),
		um.SetCol("name").ToArg(car.Name),
		um.SetCol("make").ToArg(car.Make),
		um.SetCol("model").ToArg(car.Model),
		um.SetCol("year").ToArg(car.Year),
		um.SetCol("vin").ToArg(car.VIN),
		um.SetCol("specs").ToArg(mytypes.NewJSON(car.Specs)),
		um.SetCol("updated_at").ToArg(time.Now()),
		um.Where(psql.Quote("id").EQ(psql.Arg(car.ID))),
		um.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[carRow]())
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

func (r *repo) Count(ctx context.Context) (int, error) {
	q := psql.Select(sm.Columns("count(*)"), sm.From(table))
	return util.Count(ctx, r.getExecutor(ctx), q)
}

func (c *carRow) toModel() *model.Car {
	return &model.Car{
		ID:        c.ID,
		Name:      c.Name,
		Make:      c.Make,
		Model:     c.Model,
		Year:      c.Year,
		VIN:       c.VIN,
		Specs:     c.Specs.Val,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
