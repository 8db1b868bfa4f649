// Package service holds the operations exposed by the api. It composes the
// repositories with the analysis, recommendation and compliance packages and
// publishes change events after successful writes.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/compliance"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrSessionNotActive = errors.New("session is not active")
)

var (
	meter           = otel.Meter("racemetrics/service")
	writeCounter    metric.Int64Counter
	dataPointsCount metric.Int64Counter
	generatedCount  metric.Int64Counter
)

func init() {
	writeCounter, _ = meter.Int64Counter("racemetrics.writes",
		metric.WithDescription("number of stored entity changes"))
	dataPointsCount, _ = meter.Int64Counter("racemetrics.datapoints",
		metric.WithDescription("number of logged performance data points"))
	generatedCount, _ = meter.Int64Counter("racemetrics.recommendations.generated",
		metric.WithDescription("number of generated recommendations"))
}

type Option func(s *Service)

func WithRulebooks(r *compliance.Registry) Option {
	return func(s *Service) { s.rulebooks = r }
}

func WithDefaultRulebook(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultRulebook = name
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the clock used for timestamps the service assigns.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

type Service struct {
	repos           api.Repositories
	tx              api.TransactionManager
	rulebooks       *compliance.Registry
	defaultRulebook string
	publisher       events.Publisher
	tracer          trace.Tracer
	log             *log.Logger
	clock           clockwork.Clock
}

func New(repos api.Repositories, tx api.TransactionManager, opts ...Option) *Service {
	s := &Service{
		repos:           repos,
		tx:              tx,
		defaultRulebook: compliance.SixShooter,
		publisher:       events.NewNoopPublisher(),
		tracer:          otel.Tracer("racemetrics/service"),
		log:             log.Default().Named("service"),
		clock:           clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rulebooks == nil {
		r, err := compliance.NewRegistry()
		if err != nil {
			s.log.Fatal("cannot load builtin rulebooks", log.ErrorField(err))
		}
		s.rulebooks = r
	}
	return s
}

func (s *Service) Rulebooks() *compliance.Registry {
	return s.rulebooks
}

//nolint:whitespace // editor/linter issue
func (s *Service) publish(
	ctx context.Context, entity events.Entity, action events.Action,
	id uuid.UUID, payload any,
) {
	writeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", string(entity)),
		attribute.String("action", string(action))))
	s.publisher.Publish(ctx, events.Event{
		Entity:  entity,
		Action:  action,
		ID:      id,
		At:      s.clock.Now(),
		Payload: payload,
	})
}

func (s *Service) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "service."+name)
}

// notFound converts a missing row into ErrNotFound naming the entity.
func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, api.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return err
}

// deleted reports ErrNotFound when nothing was deleted.
func deleted(n int, err error, what string, id uuid.UUID) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return nil
}
