package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/recommend"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

// GenerateForSession applies the session rules and stores the resulting
// recommendations as PENDING.
//
//nolint:whitespace // editor/linter issue
func (s *Service) GenerateForSession(
	ctx context.Context, sessionID uuid.UUID,
) ([]*model.Recommendation, error) {
	ctx, span := s.span(ctx, "GenerateForSession")
	defer span.End()
	data, err := s.sessionData(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	suggestions := recommend.ForSession(data.Points)
	for i := range suggestions {
		suggestions[i].SessionID = &sessionID
	}
	return s.storeSuggestions(ctx, "session", data.Session.CarID, suggestions)
}

// GenerateForCar compares the latest session of a car with its earlier ones.
// Sessions without lap times are ignored.
//
//nolint:whitespace // editor/linter issue
func (s *Service) GenerateForCar(
	ctx context.Context, carID uuid.UUID,
) ([]*model.Recommendation, error) {
	ctx, span := s.span(ctx, "GenerateForCar")
	defer span.End()
	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repos.Session().LoadAll(ctx, api.SessionFilter{CarID: &carID})
	if err != nil {
		return nil, err
	}
	// oldest first, the last result is the latest session
	sessions = lo.Reverse(sessions)
	results := make([]recommend.SessionResult, 0, len(sessions))
	for _, sess := range sessions {
		points, err := s.repos.DataPoint().LoadBySession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		laps := analysis.LapTimes(lo.FromSlicePtr(points))
		if len(laps) == 0 {
			continue
		}
		results = append(results, recommend.SessionResult{
			SessionID: sess.ID,
			BestLap:   lo.Min(laps),
			LapTimes:  laps,
			TopSpeed:  sess.TopSpeed,
		})
	}
	return s.storeSuggestions(ctx, "car", &car.ID, recommend.ForCar(&car.Specs, results))
}

//nolint:whitespace // editor/linter issue
func (s *Service) storeSuggestions(
	ctx context.Context, source string, carID *uuid.UUID,
	suggestions []recommend.Suggestion,
) ([]*model.Recommendation, error) {
	ret := make([]*model.Recommendation, 0, len(suggestions))
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range suggestions {
			sg := &suggestions[i]
			r, err := s.repos.Recommendation().Create(ctx, &model.Recommendation{
				CarID:          carID,
				SessionID:      sg.SessionID,
				Category:       sg.Category,
				Title:          sg.Title,
				Description:    sg.Description,
				Change:         sg.Change,
				ExpectedImpact: sg.ExpectedImpact,
				Priority:       sg.Priority,
				Status:         model.StatusPending,
			})
			if err != nil {
				return fmt.Errorf("store recommendation: %w", err)
			}
			ret = append(ret, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	generatedCount.Add(ctx, int64(len(ret)),
		metric.WithAttributes(attribute.String("source", source)))
	s.log.Debug("recommendations generated", log.String("source", source),
		log.Int("count", len(ret)))
	for _, r := range ret {
		s.publish(ctx, events.EntityRecommendation, events.ActionCreated, r.ID, r)
	}
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *Service) ListRecommendations(
	ctx context.Context, filter api.RecommendationFilter,
) ([]*model.Recommendation, error) {
	var errs validate.Errors
	if filter.Status != "" && !filter.Status.Valid() {
		errs.Add("status", "unknown status")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		errs.Add("priority", "unknown priority")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s.repos.Recommendation().LoadAll(ctx, filter)
}

//nolint:whitespace // editor/linter issue
func (s *Service) GetRecommendation(
	ctx context.Context, id uuid.UUID,
) (*model.Recommendation, error) {
	ret, err := s.repos.Recommendation().LoadByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "recommendation", id)
	}
	return ret, nil
}

// RespondToRecommendation accepts or denies a pending recommendation.
//
//nolint:whitespace // editor/linter issue
func (s *Service) RespondToRecommendation(
	ctx context.Context, id uuid.UUID,
	status model.RecommendationStatus, response, by string,
) (*model.Recommendation, error) {
	var errs validate.Errors
	errs.OneOf("status", string(status),
		string(model.StatusAccepted), string(model.StatusDenied))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, status, response, by)
}

// MarkImplemented moves an accepted recommendation to IMPLEMENTED.
//
//nolint:whitespace // editor/linter issue
func (s *Service) MarkImplemented(
	ctx context.Context, id uuid.UUID, by string,
) (*model.Recommendation, error) {
	return s.transition(ctx, id, model.StatusImplemented, "", by)
}

//nolint:whitespace // editor/linter issue
func (s *Service) transition(
	ctx context.Context, id uuid.UUID,
	status model.RecommendationStatus, response, by string,
) (*model.Recommendation, error) {
	ctx, span := s.span(ctx, "RespondToRecommendation")
	defer span.End()
	var ret *model.Recommendation
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.repos.Recommendation().LoadByID(ctx, id)
		if err != nil {
			return notFound(err, "recommendation", id)
		}
		if err := r.Respond(status, response, by, s.clock.Now()); err != nil {
			return err
		}
		ret, err = s.repos.Recommendation().Update(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityRecommendation, events.ActionResponded, ret.ID, ret)
	return ret, nil
}

func (s *Service) DeleteRecommendation(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Recommendation().DeleteByID(ctx, id)
	if err := deleted(n, err, "recommendation", id); err != nil {
		return err
	}
	s.publish(ctx, events.EntityRecommendation, events.ActionDeleted, id, nil)
	return nil
}
