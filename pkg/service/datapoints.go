package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

func cornerValues(c model.Corners) map[string]*float64 {
	return map[string]*float64{
		"frontLeft":  c.FrontLeft,
		"frontRight": c.FrontRight,
		"rearLeft":   c.RearLeft,
		"rearRight":  c.RearRight,
	}
}

func validateDataPoint(p *model.PerformanceDataPoint) error {
	var errs validate.Errors
	errs.Numbers("engine", map[string]*float64{
		"sparkAdvance":     p.Engine.SparkAdvance,
		"fuelMilliseconds": p.Engine.FuelMilliseconds,
		"revLimit":         p.Engine.RevLimit,
		"stoichRatio":      p.Engine.StoichRatio,
		"rpm":              p.Engine.RPM,
		"temperature":      p.Engine.Temperature,
	})
	errs.Numbers("suspension.camber", cornerValues(p.Suspension.Camber))
	errs.Numbers("suspension.caster", cornerValues(p.Suspension.Caster))
	errs.Numbers("suspension.toeIn", cornerValues(p.Suspension.ToeIn))
	errs.Numbers("suspension.rebound", cornerValues(p.Suspension.Rebound))
	errs.Numbers("tirePressures", cornerValues(p.TirePressures))
	errs.Numbers("tireTemperatures", cornerValues(p.TireTemperatures))
	errs.Numbers("treadDepth", cornerValues(p.TreadDepth))
	errs.Numbers("weightDistribution", cornerValues(p.WeightDistribution))
	errs.Numbers("transmission", map[string]*float64{
		"linePressure":     p.Transmission.LinePressure,
		"shiftPoints.1to2": p.Transmission.ShiftPoints.OneToTwo,
		"shiftPoints.2to3": p.Transmission.ShiftPoints.TwoToThree,
		"shiftPoints.3to4": p.Transmission.ShiftPoints.ThreeToFour,
		"gearRatios.gear1": p.Transmission.GearRatios.Gear1,
		"gearRatios.gear2": p.Transmission.GearRatios.Gear2,
		"gearRatios.gear3": p.Transmission.GearRatios.Gear3,
		"gearRatios.gear4": p.Transmission.GearRatios.Gear4,
	})
	errs.Number("lapTime", p.LapTime)
	errs.Number("fuelConsumption", p.FuelConsumption)
	errs.Numbers("environmental", map[string]*float64{
		"trackTemp":   p.Environmental.TrackTemp,
		"ambientTemp": p.Environmental.AmbientTemp,
		"humidity":    p.Environmental.Humidity,
	})
	if c := p.Environmental.TrackCondition; c != "" {
		errs.OneOf("environmental.trackCondition", string(c), trackConditions...)
	}
	return errs.Err()
}

// LogDataPoint stores a data point for an active session.
//
//nolint:whitespace // editor/linter issue
func (s *Service) LogDataPoint(
	ctx context.Context, p *model.PerformanceDataPoint,
) (*model.PerformanceDataPoint, error) {
	ctx, span := s.span(ctx, "LogDataPoint")
	defer span.End()
	ret, err := s.logDataPoints(ctx, p.SessionID, []*model.PerformanceDataPoint{p})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityDataPoint, events.ActionCreated, ret[0].ID, ret[0])
	return ret[0], nil
}

// logDataPoints stores all points in one transaction after checking the
// session is active.
//
//nolint:whitespace // editor/linter issue
func (s *Service) logDataPoints(
	ctx context.Context, sessionID uuid.UUID, points []*model.PerformanceDataPoint,
) ([]*model.PerformanceDataPoint, error) {
	for i, p := range points {
		p.SessionID = sessionID
		if p.RecordedAt.IsZero() {
			p.RecordedAt = s.clock.Now()
		}
		if err := validateDataPoint(p); err != nil {
			if len(points) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	ret := make([]*model.PerformanceDataPoint, 0, len(points))
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.repos.Session().LoadByID(ctx, sessionID)
		if err != nil {
			return notFound(err, "session", sessionID)
		}
		if !sess.IsActive() {
			return fmt.Errorf("%w: %s", ErrSessionNotActive, sessionID)
		}
		for _, p := range points {
			stored, err := s.repos.DataPoint().Create(ctx, p)
			if err != nil {
				return err
			}
			ret = append(ret, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dataPointsCount.Add(ctx, int64(len(ret)),
		metric.WithAttributes(attribute.String("session", sessionID.String())))
	return ret, nil
}

// ListDataPoints returns the points of a session in recording order.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ListDataPoints(
	ctx context.Context, sessionID uuid.UUID,
) ([]*model.PerformanceDataPoint, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repos.DataPoint().LoadBySession(ctx, sessionID)
}

// ClearDataPoints removes all points of a session and returns their number.
func (s *Service) ClearDataPoints(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return 0, err
	}
	n, err := s.repos.DataPoint().DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, events.EntityDataPoint, events.ActionDeleted, sessionID, nil)
	}
	return n, nil
}
