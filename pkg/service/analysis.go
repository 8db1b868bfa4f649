package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/recommend"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

//nolint:whitespace // editor/linter issue
func (s *Service) sessionData(
	ctx context.Context, id uuid.UUID,
) (*analysis.SessionData, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	points, err := s.repos.DataPoint().LoadBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &analysis.SessionData{Session: *sess, Points: lo.FromSlicePtr(points)}, nil
}

// AnalyzeSession computes the analysis of a session together with the
// suggestions of the session rules. Nothing is stored.
//
//nolint:whitespace // editor/linter issue
func (s *Service) AnalyzeSession(
	ctx context.Context, id uuid.UUID,
) (*SessionReport, error) {
	ctx, span := s.span(ctx, "AnalyzeSession")
	defer span.End()
	data, err := s.sessionData(ctx, id)
	if err != nil {
		return nil, err
	}
	a := analysis.AnalyzeSession(&data.Session, data.Points)
	return &SessionReport{
		Analysis:    a,
		Suggestions: recommend.ForSession(data.Points),
		Summary:     a.Summary(),
	}, nil
}

// CompareSessions summarizes the given sessions in request order.
//
//nolint:whitespace // editor/linter issue
func (s *Service) CompareSessions(
	ctx context.Context, ids []uuid.UUID,
) ([]analysis.SessionComparison, error) {
	ctx, span := s.span(ctx, "CompareSessions")
	defer span.End()
	if len(ids) == 0 {
		var errs validate.Errors
		errs.Add("sessionIds", "at least one session is required")
		return nil, errs
	}
	data := make([]analysis.SessionData, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		d, err := s.sessionData(ctx, id)
		if err != nil {
			return nil, err
		}
		data = append(data, *d)
	}
	return analysis.CompareSessions(data), nil
}
