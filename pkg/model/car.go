package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type FuelSystem string

const (
	FuelSystemCarburetor FuelSystem = "carburetor"
	FuelSystemInjection  FuelSystem = "injection"
)

type Car struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      *int      `json:"year,omitempty"`
	VIN       *string   `json:"vin,omitempty"`
	Specs     CarSpecs  `json:"specs"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CarSpecs holds the technical specification of a car as it is checked
// against a compliance rulebook. All values are optional.
type CarSpecs struct {
	CarNumber   string           `json:"carNumber,omitempty" yaml:"carNumber"`
	Driver      string           `json:"driver,omitempty" yaml:"driver"`
	Engine      EngineSpecs      `json:"engine" yaml:"engine"`
	Suspension  SuspensionSpecs  `json:"suspension" yaml:"suspension"`
	Wheels      WheelSpecs       `json:"wheels" yaml:"wheels"`
	Weight      WeightSpecs      `json:"weight" yaml:"weight"`
	Dimensions  DimensionSpecs   `json:"dimensions" yaml:"dimensions"`
	Electronics ElectronicsSpecs `json:"electronics" yaml:"electronics"`
}

type EngineSpecs struct {
	Displacement     *float64   `json:"displacement,omitempty" yaml:"displacement"`         // cubic inches
	CompressionRatio *float64   `json:"compressionRatio,omitempty" yaml:"compressionRatio"` // x:1
	FuelSystem       FuelSystem `json:"fuelSystem,omitempty" yaml:"fuelSystem"`
	IgnitionTiming   *float64   `json:"ignitionTiming,omitempty" yaml:"ignitionTiming"` // degrees BTDC
	FuelMixture      string     `json:"fuelMixture,omitempty" yaml:"fuelMixture"`
}

type SuspensionSpecs struct {
	FrontSpringRate   *float64 `json:"frontSpringRate,omitempty" yaml:"frontSpringRate"` // lb/in
	RearSpringRate    *float64 `json:"rearSpringRate,omitempty" yaml:"rearSpringRate"`
	FrontShockSetting string   `json:"frontShockSetting,omitempty" yaml:"frontShockSetting"`
	RearShockSetting  string   `json:"rearShockSetting,omitempty" yaml:"rearShockSetting"`
	FrontCamber       *float64 `json:"frontCamber,omitempty" yaml:"frontCamber"`
	RearCamber        *float64 `json:"rearCamber,omitempty" yaml:"rearCamber"`
	Toe               *float64 `json:"toe,omitempty" yaml:"toe"`
	Caster            *float64 `json:"caster,omitempty" yaml:"caster"`
}

type WheelSpecs struct {
	FrontTireSize     string   `json:"frontTireSize,omitempty" yaml:"frontTireSize"` // e.g. 225/50R15
	RearTireSize      string   `json:"rearTireSize,omitempty" yaml:"rearTireSize"`
	FrontTirePressure *float64 `json:"frontTirePressure,omitempty" yaml:"frontTirePressure"` // PSI
	RearTirePressure  *float64 `json:"rearTirePressure,omitempty" yaml:"rearTirePressure"`
	WheelOffset       *float64 `json:"wheelOffset,omitempty" yaml:"wheelOffset"`
}

type WeightSpecs struct {
	TotalWeight *float64 `json:"totalWeight,omitempty" yaml:"totalWeight"` // lbs
	FrontWeight *float64 `json:"frontWeight,omitempty" yaml:"frontWeight"`
	RearWeight  *float64 `json:"rearWeight,omitempty" yaml:"rearWeight"`
	LeftWeight  *float64 `json:"leftWeight,omitempty" yaml:"leftWeight"`
	RightWeight *float64 `json:"rightWeight,omitempty" yaml:"rightWeight"`
	CrossWeight *float64 `json:"crossWeight,omitempty" yaml:"crossWeight"`
}

type DimensionSpecs struct {
	Wheelbase  *float64 `json:"wheelbase,omitempty" yaml:"wheelbase"` // inches
	TrackWidth *float64 `json:"trackWidth,omitempty" yaml:"trackWidth"`
	Height     *float64 `json:"height,omitempty" yaml:"height"`
}

type ElectronicsSpecs struct {
	RPMLimiter *float64 `json:"rpmLimiter,omitempty" yaml:"rpmLimiter"`
	ShiftLight *float64 `json:"shiftLight,omitempty" yaml:"shiftLight"`
}
