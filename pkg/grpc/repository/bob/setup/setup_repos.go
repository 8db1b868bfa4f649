//nolint:whitespace,dupl // editor/linter issue
package setup

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

const table = "car_setup"

type (
	repo struct {
		conn bob.Executor
	}
	setupRow struct {
		ID           uuid.UUID                           `db:"id"`
		CarID        uuid.NullUUID                       `db:"car_id"`
		Name         string                              `db:"name"`
		Make         string                              `db:"make"`
		Model        string                              `db:"model"`
		Year         *int                                `db:"year"`
		EngineType   string                              `db:"engine_type"`
		Parameters   mytypes.JSON[model.SetupParameters] `db:"parameters"`
		Notes        string                              `db:"notes"`
		SavedAt      time.Time                           `db:"saved_at"`
		LastModified time.Time                           `db:"last_modified"`
	}
)

var _ api.SetupRepository = (*repo)(nil)

func NewSetupRepository(conn bob.Executor) api.SetupRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, s *model.CarSetup) (*model.CarSetup, error) {
	id := s.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	q := psql.Insert(
		im.Into(table, "id", "car_id", "name", "make", "model", "year",
			"engine_type", "parameters", "notes"),
		im.Values(psql.Arg(id, mytypes.NullUUID(s.CarID), s.Name, s.Make, s.Model,
			s.Year, s.EngineType, mytypes.NewJSON(s.Parameters), s.Notes)),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[setupRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (*model.CarSetup, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[setupRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context, carID *uuid.UUID) (
	[]*model.CarSetup, error,
) {
	sqlMods := bob.Mods[*dialect.SelectQuery]{
		sm.Columns("*"),
		sm.From(table),
		sm.OrderBy("last_modified").Desc(),
		sm.OrderBy("id").Desc(),
	}
	if carID != nil {
		sqlMods = append(sqlMods, sm.Where(psql.Quote("car_id").EQ(psql.Arg(*carID))))
	}
	rows, err := bob.All(ctx, r.getExecutor(ctx), psql.Select(sqlMods...),
		scan.StructMapper[setupRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.CarSetup, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

func (r *repo) Update(ctx context.Context, s *model.CarSetup) (*model.CarSetup, error) {
	q := psql.Update(
		um.Table(table),
		um.SetCol("car_id").ToArg(mytypes.NullUUID(s.CarID)),
		um.SetCol("name").ToArg(s.Name),
		um.SetCol("make").ToArg(s.Make),
		um.SetCol("model").ToArg(s.Model),
		um.SetCol("year").ToArg(s.Year),
		um.SetCol("engine_type").ToArg(s.EngineType),
		um.SetCol("parameters").ToArg(mytypes.NewJSON(s.Parameters)),
		um.SetCol("notes").ToArg(s.Notes),
		um.SetCol("last_modified").ToArg(time.Now()),
		um.Where(psql.Quote("id").EQ(psql.Arg(s.ID))),
		um.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[setupRow]())
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

func (s *setupRow) toModel() *model.CarSetup {
	return &model.CarSetup{
		ID:           s.ID,
		CarID:        mytypes.PtrFromNullUUID(s.CarID),
		Name:         s.Name,
		Make:         s.Make,
		Model:        s.Model,
		Year:         s.Year,
		EngineType:   s.EngineType,
		Parameters:   s.Parameters.Val,
		Notes:        s.Notes,
		SavedAt:      s.SavedAt,
		LastModified: s.LastModified,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
