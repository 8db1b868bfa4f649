package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

var trackConditions = []string{
	string(model.TrackDry), string(model.TrackWet),
	string(model.TrackDamp), string(model.TrackMixed),
}

func validateSession(sess *model.Session) error {
	var errs validate.Errors
	errs.Required("name", sess.Name)
	if sess.TrackCondition != "" {
		errs.OneOf("trackCondition", string(sess.TrackCondition), trackConditions...)
	}
	errs.Numbers("session", map[string]*float64{
		"topSpeed":    sess.TopSpeed,
		"temperature": sess.Temperature,
		"humidity":    sess.Humidity,
	})
	return errs.Err()
}

//nolint:whitespace // editor/linter issue
func (s *Service) CreateSession(
	ctx context.Context, sess *model.Session,
) (*model.Session, error) {
	ctx, span := s.span(ctx, "CreateSession")
	defer span.End()
	if err := validateSession(sess); err != nil {
		return nil, err
	}
	sess.Status = model.SessionActive
	var ret *model.Session
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if sess.CarID != nil {
			if _, err := s.repos.Car().LoadByID(ctx, *sess.CarID); err != nil {
				return notFound(err, "car", *sess.CarID)
			}
		}
		var err error
		ret, err = s.repos.Session().Create(ctx, sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("session created", log.String("id", ret.ID.String()),
		log.String("name", ret.Name))
	s.publish(ctx, events.EntitySession, events.ActionCreated, ret.ID, ret)
	return ret, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	ret, err := s.repos.Session().LoadByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *Service) ListSessions(
	ctx context.Context, filter api.SessionFilter,
) ([]*model.Session, error) {
	return s.repos.Session().LoadAll(ctx, filter)
}

//nolint:whitespace,funlen // editor/linter issue
func (s *Service) UpdateSession(
	ctx context.Context, id uuid.UUID, patch *SessionPatch,
) (*model.Session, error) {
	ctx, span := s.span(ctx, "UpdateSession")
	defer span.End()
	var ret *model.Session
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.repos.Session().LoadByID(ctx, id)
		if err != nil {
			return notFound(err, "session", id)
		}
		if !patch.CarID.IsUnset() {
			sess.CarID = patch.CarID.Ptr()
			if sess.CarID != nil {
				if _, err := s.repos.Car().LoadByID(ctx, *sess.CarID); err != nil {
					return notFound(err, "car", *sess.CarID)
				}
			}
		}
		if v, ok := patch.Name.Get(); ok {
			sess.Name = v
		}
		if v, ok := patch.TrackName.Get(); ok {
			sess.TrackName = v
		}
		if v, ok := patch.TrackCondition.Get(); ok {
			sess.TrackCondition = v
		}
		if v, ok := patch.Notes.Get(); ok {
			sess.Notes = v
		}
		if v, ok := patch.DriverFeedback.Get(); ok {
			sess.DriverFeedback = v
		}
		if v, ok := patch.MechanicNotes.Get(); ok {
			sess.MechanicNotes = v
		}
		if !patch.TopSpeed.IsUnset() {
			sess.TopSpeed = patch.TopSpeed.Ptr()
		}
		if !patch.Temperature.IsUnset() {
			sess.Temperature = patch.Temperature.Ptr()
		}
		if !patch.Humidity.IsUnset() {
			sess.Humidity = patch.Humidity.Ptr()
		}
		if err := validateSession(sess); err != nil {
			return err
		}
		ret, err = s.repos.Session().Update(ctx, sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntitySession, events.ActionUpdated, ret.ID, ret)
	return ret, nil
}

// EndSession completes an active session. Ending a completed session is
// rejected with ErrSessionNotActive.
//
//nolint:whitespace // editor/linter issue
func (s *Service) EndSession(
	ctx context.Context, id uuid.UUID, req *EndSessionRequest,
) (*model.Session, error) {
	ctx, span := s.span(ctx, "EndSession")
	defer span.End()
	var errs validate.Errors
	errs.Number("topSpeed", req.TopSpeed)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	var ret *model.Session
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.repos.Session().LoadByID(ctx, id)
		if err != nil {
			return notFound(err, "session", id)
		}
		if !sess.IsActive() {
			return fmt.Errorf("%w: %s", ErrSessionNotActive, id)
		}
		now := s.clock.Now()
		sess.Status = model.SessionCompleted
		sess.EndedAt = &now
		if req.TopSpeed != nil {
			sess.TopSpeed = req.TopSpeed
		}
		if req.DriverFeedback != "" {
			sess.DriverFeedback = req.DriverFeedback
		}
		if req.MechanicNotes != "" {
			sess.MechanicNotes = req.MechanicNotes
		}
		ret, err = s.repos.Session().Update(ctx, sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntitySession, events.ActionEnded, ret.ID, ret)
	return ret, nil
}

// DeleteSession removes the session, its data points and its recommendations.
func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Session().DeleteByID(ctx, id)
	if err := deleted(n, err, "session", id); err != nil {
		return err
	}
	s.publish(ctx, events.EntitySession, events.ActionDeleted, id, nil)
	return nil
}
