package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

func validateSetup(st *model.CarSetup) error {
	var errs validate.Errors
	errs.Required("name", st.Name)
	p := &st.Parameters
	errs.Numbers("parameters.engine", map[string]*float64{
		"sparkAdvanceBase":  p.Engine.SparkAdvanceBase,
		"fuelMapBase":       p.Engine.FuelMapBase,
		"revLimiter":        p.Engine.RevLimiter,
		"stoichRatioTarget": p.Engine.StoichRatioTarget,
	})
	for name, c := range map[string]model.Corners{
		"camber":      p.Suspension.Camber,
		"caster":      p.Suspension.Caster,
		"toe":         p.Suspension.Toe,
		"rebound":     p.Suspension.Rebound,
		"compression": p.Suspension.Compression,
		"springRate":  p.Suspension.SpringRate,
	} {
		errs.Numbers("parameters.suspension."+name, cornerValues(c))
	}
	errs.Numbers("parameters.suspension", map[string]*float64{
		"frontAntiRollBar": p.Suspension.FrontAntiRoll,
		"rearAntiRollBar":  p.Suspension.RearAntiRoll,
	})
	errs.Numbers("parameters.transmission", map[string]*float64{
		"linePressureBase": p.Transmission.LinePressureBase,
		"finalDrive":       p.Transmission.FinalDrive,
		"shiftPoints.1to2": p.Transmission.ShiftPoints.OneToTwo,
		"shiftPoints.2to3": p.Transmission.ShiftPoints.TwoToThree,
		"shiftPoints.3to4": p.Transmission.ShiftPoints.ThreeToFour,
		"gearRatios.gear1": p.Transmission.GearRatios.Gear1,
		"gearRatios.gear2": p.Transmission.GearRatios.Gear2,
		"gearRatios.gear3": p.Transmission.GearRatios.Gear3,
		"gearRatios.gear4": p.Transmission.GearRatios.Gear4,
	})
	errs.Numbers("parameters.weight", map[string]*float64{
		"totalWeight":        p.Weight.TotalWeight,
		"weightDistribution": p.Weight.WeightDistribution,
		"cornerBalance":      p.Weight.CornerBalance,
	})
	errs.Numbers("parameters.tires.basePressure", cornerValues(p.Tires.BasePressure))
	return errs.Err()
}

// SaveSetup stores a new setup. Unset make, engine type, stoich target and
// front weight percentage get their defaults.
//
//nolint:whitespace // editor/linter issue
func (s *Service) SaveSetup(
	ctx context.Context, st *model.CarSetup,
) (*model.CarSetup, error) {
	ctx, span := s.span(ctx, "SaveSetup")
	defer span.End()
	st.ApplyDefaults()
	if err := validateSetup(st); err != nil {
		return nil, err
	}
	var ret *model.CarSetup
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if st.CarID != nil {
			if _, err := s.repos.Car().LoadByID(ctx, *st.CarID); err != nil {
				return notFound(err, "car", *st.CarID)
			}
		}
		var err error
		ret, err = s.repos.Setup().Create(ctx, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntitySetup, events.ActionCreated, ret.ID, ret)
	return ret, nil
}

func (s *Service) GetSetup(ctx context.Context, id uuid.UUID) (*model.CarSetup, error) {
	ret, err := s.repos.Setup().LoadByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "setup", id)
	}
	return ret, nil
}

// ListSetups returns the setups, optionally of one car, newest first.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ListSetups(
	ctx context.Context, carID *uuid.UUID,
) ([]*model.CarSetup, error) {
	return s.repos.Setup().LoadAll(ctx, carID)
}

//nolint:whitespace // editor/linter issue
func (s *Service) UpdateSetup(
	ctx context.Context, id uuid.UUID, patch *SetupPatch,
) (*model.CarSetup, error) {
	ctx, span := s.span(ctx, "UpdateSetup")
	defer span.End()
	var ret *model.CarSetup
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		st, err := s.repos.Setup().LoadByID(ctx, id)
		if err != nil {
			return notFound(err, "setup", id)
		}
		if !patch.CarID.IsUnset() {
			st.CarID = patch.CarID.Ptr()
			if st.CarID != nil {
				if _, err := s.repos.Car().LoadByID(ctx, *st.CarID); err != nil {
					return notFound(err, "car", *st.CarID)
				}
			}
		}
		if v, ok := patch.Name.Get(); ok {
			st.Name = v
		}
		if v, ok := patch.Make.Get(); ok {
			st.Make = v
		}
		if v, ok := patch.Model.Get(); ok {
			st.Model = v
		}
		if !patch.Year.IsUnset() {
			st.Year = patch.Year.Ptr()
		}
		if v, ok := patch.EngineType.Get(); ok {
			st.EngineType = v
		}
		if v, ok := patch.Parameters.Get(); ok {
			st.Parameters = v
		}
		if v, ok := patch.Notes.Get(); ok {
			st.Notes = v
		}
		if err := validateSetup(st); err != nil {
			return err
		}
		ret, err = s.repos.Setup().Update(ctx, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntitySetup, events.ActionUpdated, ret.ID, ret)
	return ret, nil
}

func (s *Service) DeleteSetup(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Setup().DeleteByID(ctx, id)
	if err := deleted(n, err, "setup", id); err != nil {
		return err
	}
	s.publish(ctx, events.EntitySetup, events.ActionDeleted, id, nil)
	return nil
}
