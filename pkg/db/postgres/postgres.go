package postgres

import (
	"context"
	"time"

	"github.com/exaring/otelpgx"
	pgxuuid "github.com/jackc/pgx-gofrs-uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgx-contrib/pgxtrace"

	"github.com/mpapenbr/racemetrics/log"
)

type PoolConfigOption func(cfg *pgxpool.Config)

// WithTracer installs all given tracers on the connections.
func WithTracer(tracers ...pgx.QueryTracer) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = pgxtrace.CompositeQueryTracer(tracers)
	}
}

// NewSQLTracer logs every statement on the given level.
func NewSQLTracer(logger *log.Logger, level log.Level) pgx.QueryTracer {
	return &myQueryTracer{log: logger.Named("sql"), level: level}
}

// NewOtlpTracer creates spans for statements.
func NewOtlpTracer() pgx.QueryTracer {
	return otelpgx.NewTracer()
}

func WithMaxConns(n int32) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConns = n
	}
}

// InitWithURL creates the pool and verifies the database is reachable.
// The process exits if that fails.
func InitWithURL(url string, opts ...PoolConfigOption) *pgxpool.Pool {
	pool, err := NewPool(context.Background(), url, opts...)
	if err != nil {
		log.Fatal("Unable to connect to database", log.ErrorField(err))
	}
	return pool
}

//nolint:whitespace // editor/linter issue
func NewPool(ctx context.Context, url string, opts ...PoolConfigOption) (
	*pgxpool.Pool, error,
) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	dbConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}
	for _, opt := range opts {
		opt(dbConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type myQueryTracer struct {
	log   *log.Logger
	level log.Level
}

type traceStartKey struct{}

//nolint:whitespace // can't make the linters happy
func (tracer *myQueryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	if ce := tracer.log.ZapLogger().Check(tracer.level, "Executing"); ce != nil {
		ce.Write(log.String("sql", data.SQL), log.Any("args", data.Args))
	}
	return context.WithValue(ctx, traceStartKey{}, time.Now())
}

//nolint:whitespace // can't make the linters happy
func (tracer *myQueryTracer) TraceQueryEnd(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	var took time.Duration
	if start, ok := ctx.Value(traceStartKey{}).(time.Time); ok {
		took = time.Since(start)
	}
	if data.Err != nil {
		tracer.log.Warn("Query failed",
			log.ErrorField(data.Err),
			log.Duration("duration", took))
		return
	}
	if ce := tracer.log.ZapLogger().Check(tracer.level, "Done"); ce != nil {
		ce.Write(log.String("tag", data.CommandTag.String()),
			log.Duration("duration", took))
	}
}
