//nolint:whitespace // editor/linter issue
package session

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
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racemetrics/pkg/db/mytypes"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	bobCtx "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/context"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/util"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const table = "session"

type (
	repo struct {
		conn bob.Executor
	}
	sessionRow struct {
		ID             uuid.UUID           `db:"id"`
		CarID          uuid.NullUUID       `db:"car_id"`
		Name           string              `db:"name"`
		TrackName      string              `db:"track_name"`
		TrackCondition string              `db:"track_condition"`
		Notes          string              `db:"notes"`
		Status         string              `db:"status"`
		TopSpeed       decimal.NullDecimal `db:"top_speed"`
		Temperature    decimal.NullDecimal `db:"temperature"`
		Humidity       decimal.NullDecimal `db:"humidity"`
		DriverFeedback string              `db:"driver_feedback"`
		MechanicNotes  string              `db:"mechanic_notes"`
		CreatedAt      time.Time           `db:"created_at"`
		UpdatedAt      time.Time           `db:"updated_at"`
		EndedAt        *time.Time          `db:"ended_at"`
	}
)

var _ api.SessionRepository = (*repo)(nil)

func NewSessionRepository(conn bob.Executor) api.SessionRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	id := s.ID
	if id.IsNil() {
		id = uuid.Must(uuid.NewV7())
	}
	status := s.Status
	if status == "" {
		status = model.SessionActive
	}
	cond := s.TrackCondition
	if cond == "" {
		cond = model.TrackDry
	}
	q := psql.Insert(
		im.Into(table, "id", "car_id", "name", "track_name", "track_condition",
			"notes", "status", "top_speed", "temperature", "humidity",
			"driver_feedback", "mechanic_notes"),
		im.Values(psql.Arg(id, mytypes.NullUUID(s.CarID), s.Name, s.TrackName,
			string(cond), s.Notes, string(status),
			mytypes.NumericFromPtr(s.TopSpeed),
			mytypes.NumericFromPtr(s.Temperature),
			mytypes.NumericFromPtr(s.Humidity),
			s.DriverFeedback, s.MechanicNotes)),
		im.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	q := psql.Select(
		sm.Columns("*"),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

func (r *repo) LoadAll(ctx context.Context, filter api.SessionFilter) (
	[]*model.Session, error,
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
	if filter.Status != "" {
		sqlMods = append(sqlMods,
			sm.Where(psql.Quote("status").EQ(psql.Arg(string(filter.Status)))))
	}
	if filter.Limit > 0 {
		sqlMods = append(sqlMods, sm.Limit(filter.Limit))
	}
	rows, err := bob.All(ctx, r.getExecutor(ctx), psql.Select(sqlMods...),
		scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Session, len(rows))
	for i := range rows {
		ret[i] = rows[i].toModel()
	}
	return ret, nil
}

func (r *repo) Update(ctx context.Context, s *model.Session) (*model.Session, error) {
	q := psql.Update(
		um.Table(table),
		um.SetCol("car_id").ToArg(mytypes.NullUUID(s.CarID)),
		um.SetCol("name").ToArg(s.Name),
		um.SetCol("track_name").ToArg(s.TrackName),
		um.SetCol("track_condition").ToArg(string(s.TrackCondition)),
		um.SetCol("notes").ToArg(s.Notes),
		um.SetCol("status").ToArg(string(s.Status)),
		um.SetCol("top_speed").ToArg(mytypes.NumericFromPtr(s.TopSpeed)),
		um.SetCol("temperature").ToArg(mytypes.NumericFromPtr(s.Temperature)),
		um.SetCol("humidity").ToArg(mytypes.NumericFromPtr(s.Humidity)),
		um.SetCol("driver_feedback").ToArg(s.DriverFeedback),
		um.SetCol("mechanic_notes").ToArg(s.MechanicNotes),
		um.SetCol("ended_at").ToArg(s.EndedAt),
		um.SetCol("updated_at").ToArg(time.Now()),
		um.Where(psql.Quote("id").EQ(psql.Arg(s.ID))),
		um.Returning("*"),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, util.MapErr(err)
	}
	return row.toModel(), nil
}

// deletes an entry from the database, returns number of rows deleted.
// The data points of the session are removed by the database.
func (r *repo) DeleteByID(ctx context.Context, id uuid.UUID) (int, error) {
	q := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Returning("id"),
	)
	return util.Affected(ctx, r.getExecutor(ctx), q)
}

func (r *repo) Count(ctx context.Context, status model.SessionStatus) (int, error) {
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

func (s *sessionRow) toModel() *model.Session {
	return &model.Session{
		ID:             s.ID,
		CarID:          mytypes.PtrFromNullUUID(s.CarID),
		Name:           s.Name,
		TrackName:      s.TrackName,
		TrackCondition: model.TrackCondition(s.TrackCondition),
		Notes:          s.Notes,
		Status:         model.SessionStatus(s.Status),
		TopSpeed:       mytypes.PtrFromNumeric(s.TopSpeed),
		Temperature:    mytypes.PtrFromNumeric(s.Temperature),
		Humidity:       mytypes.PtrFromNumeric(s.Humidity),
		DriverFeedback: s.DriverFeedback,
		MechanicNotes:  s.MechanicNotes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		EndedAt:        s.EndedAt,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
