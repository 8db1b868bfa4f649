package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/compliance"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

func validateCar(c *model.Car) error {
	var errs validate.Errors
	errs.Required("name", c.Name)
	if c.Specs.Engine.FuelSystem != "" {
		errs.OneOf("specs.engine.fuelSystem", string(c.Specs.Engine.FuelSystem),
			string(model.FuelSystemCarburetor), string(model.FuelSystemInjection))
	}
	validateSpecs(&errs, &c.Specs)
	return errs.Err()
}

func validateSpecs(errs *validate.Errors, sp *model.CarSpecs) {
	errs.Numbers("specs.engine", map[string]*float64{
		"displacement":     sp.Engine.Displacement,
		"compressionRatio": sp.Engine.CompressionRatio,
		"ignitionTiming":   sp.Engine.IgnitionTiming,
	})
	errs.Numbers("specs.suspension", map[string]*float64{
		"frontSpringRate": sp.Suspension.FrontSpringRate,
		"rearSpringRate":  sp.Suspension.RearSpringRate,
		"frontCamber":     sp.Suspension.FrontCamber,
		"rearCamber":      sp.Suspension.RearCamber,
		"toe":             sp.Suspension.Toe,
		"caster":          sp.Suspension.Caster,
	})
	errs.Numbers("specs.wheels", map[string]*float64{
		"frontTirePressure": sp.Wheels.FrontTirePressure,
		"rearTirePressure":  sp.Wheels.RearTirePressure,
		"wheelOffset":       sp.Wheels.WheelOffset,
	})
	errs.Numbers("specs.weight", map[string]*float64{
		"totalWeight": sp.Weight.TotalWeight,
		"frontWeight": sp.Weight.FrontWeight,
		"rearWeight":  sp.Weight.RearWeight,
		"leftWeight":  sp.Weight.LeftWeight,
		"rightWeight": sp.Weight.RightWeight,
		"crossWeight": sp.Weight.CrossWeight,
	})
	errs.Numbers("specs.dimensions", map[string]*float64{
		"wheelbase":  sp.Dimensions.Wheelbase,
		"trackWidth": sp.Dimensions.TrackWidth,
		"height":     sp.Dimensions.Height,
	})
	errs.Numbers("specs.electronics", map[string]*float64{
		"rpmLimiter": sp.Electronics.RPMLimiter,
		"shiftLight": sp.Electronics.ShiftLight,
	})
}

func (s *Service) CreateCar(ctx context.Context, c *model.Car) (*model.Car, error) {
	ctx, span := s.span(ctx, "CreateCar")
	defer span.End()
	if err := validateCar(c); err != nil {
		return nil, err
	}
	ret, err := s.repos.Car().Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	s.log.Debug("car created", log.String("id", ret.ID.String()),
		log.String("name", ret.Name))
	s.publish(ctx, events.EntityCar, events.ActionCreated, ret.ID, ret)
	return ret, nil
}

func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	ret, err := s.repos.Car().LoadByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "car", id)
	}
	return ret, nil
}

func (s *Service) ListCars(ctx context.Context) ([]*model.Car, error) {
	return s.repos.Car().LoadAll(ctx)
}

// UpdateCar applies the set fields of patch to the stored car.
//
//nolint:whitespace // editor/linter issue
func (s *Service) UpdateCar(
	ctx context.Context, id uuid.UUID, patch *CarPatch,
) (*model.Car, error) {
	ctx, span := s.span(ctx, "UpdateCar")
	defer span.End()
	var ret *model.Car
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Car().LoadByID(ctx, id)
		if err != nil {
			return notFound(err, "car", id)
		}
		if v, ok := patch.Name.Get(); ok {
			c.Name = v
		}
		if v, ok := patch.Make.Get(); ok {
			c.Make = v
		}
		if v, ok := patch.Model.Get(); ok {
			c.Model = v
		}
		if v, ok := patch.Specs.Get(); ok {
			c.Specs = v
		}
		if !patch.Year.IsUnset() {
			c.Year = patch.Year.Ptr()
		}
		if !patch.VIN.IsUnset() {
			c.VIN = patch.VIN.Ptr()
		}
		if err := validateCar(c); err != nil {
			return err
		}
		ret, err = s.repos.Car().Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityCar, events.ActionUpdated, ret.ID, ret)
	return ret, nil
}

// DeleteCar removes the car together with its metrics and recommendations.
// Sessions and setups of the car are kept without a car reference.
func (s *Service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	n, err := s.repos.Car().DeleteByID(ctx, id)
	if err := deleted(n, err, "car", id); err != nil {
		return err
	}
	s.publish(ctx, events.EntityCar, events.ActionDeleted, id, nil)
	return nil
}

// CheckCompliance runs a rulebook against a stored car or inline specs.
// Without a rulebook name the configured default is used.
//
//nolint:whitespace // editor/linter issue
func (s *Service) CheckCompliance(
	ctx context.Context, req *ComplianceRequest,
) (*compliance.Report, error) {
	ctx, span := s.span(ctx, "CheckCompliance")
	defer span.End()
	name := req.Rulebook
	if name == "" {
		name = s.defaultRulebook
	}
	book, err := s.rulebooks.Get(name)
	if err != nil {
		var errs validate.Errors
		errs.Add("rulebook", err.Error())
		return nil, errs
	}
	specs := req.Specs
	switch {
	case req.CarID != nil:
		c, err := s.GetCar(ctx, *req.CarID)
		if err != nil {
			return nil, err
		}
		specs = &c.Specs
	case specs == nil:
		var errs validate.Errors
		errs.Add("carId", "either carId or specs is required")
		return nil, errs
	}
	var errs validate.Errors
	validateSpecs(&errs, specs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return book.Check(specs)
}
