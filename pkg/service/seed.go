package service

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

const SampleCarVIN = "SAMPLE123456789"

// SampleCar is the car a fresh installation starts with.
func SampleCar() *model.Car {
	return &model.Car{
		Name:  "Thunder Bolt",
		Make:  "Custom",
		Model: "6-Shooter Special",
		Year:  lo.ToPtr(2023),
		VIN:   lo.ToPtr(SampleCarVIN),
	}
}

type SeedResult struct {
	Categories int  `json:"categories"`
	SampleCar  bool `json:"sampleCar"`
}

// Seed inserts the default categories and the sample car. Existing entries
// are left untouched so the command can be run repeatedly.
func (s *Service) Seed(ctx context.Context) (*SeedResult, error) {
	ret := &SeedResult{}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if ret.Categories, err = s.SeedDefaults(ctx); err != nil {
			return err
		}
		_, err = s.repos.Car().LoadByVIN(ctx, SampleCarVIN)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, api.ErrNoRows):
			return err
		}
		if _, err = s.repos.Car().Create(ctx, SampleCar()); err != nil {
			return err
		}
		ret.SampleCar = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("seed done", log.Int("categories", ret.Categories),
		log.Bool("sampleCar", ret.SampleCar))
	return ret, nil
}
