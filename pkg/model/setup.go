package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	DefaultSetupMake         = "GM"
	DefaultSetupEngineType   = "3.8L V6"
	DefaultStoichRatioTarget = 14.7
	DefaultFrontWeightPct    = 60.0
)

// CarSetup is a named set of tunable parameters for a car.
type CarSetup struct {
	ID           uuid.UUID       `json:"id"`
	CarID        *uuid.UUID      `json:"carId,omitempty"`
	Name         string          `json:"name"`
	Make         string          `json:"make"`
	Model        string          `json:"model,omitempty"`
	Year         *int            `json:"year,omitempty"`
	EngineType   string          `json:"engineType"`
	Parameters   SetupParameters `json:"parameters"`
	Notes        string          `json:"notes,omitempty"`
	SavedAt      time.Time       `json:"savedAt"`
	LastModified time.Time       `json:"lastModified"`
}

type SetupParameters struct {
	Engine       EngineSetup       `json:"engine"`
	Suspension   SuspensionSetup   `json:"suspension"`
	Transmission TransmissionSetup `json:"transmission"`
	Weight       WeightSetup       `json:"weight"`
	Tires        TireSetup         `json:"tires"`
	Aero         AeroSetup         `json:"aero"`
}

type EngineSetup struct {
	SparkAdvanceBase  *float64 `json:"sparkAdvanceBase,omitempty"`
	FuelMapBase       *float64 `json:"fuelMapBase,omitempty"`
	RevLimiter        *float64 `json:"revLimiter,omitempty"`
	StoichRatioTarget *float64 `json:"stoichRatioTarget,omitempty"`
}

type SuspensionSetup struct {
	Camber        Corners  `json:"camber"`
	Caster        Corners  `json:"caster"`
	Toe           Corners  `json:"toe"`
	Rebound       Corners  `json:"rebound"`
	Compression   Corners  `json:"compression"`
	SpringRate    Corners  `json:"springRate"`
	FrontAntiRoll *float64 `json:"frontAntiRollBar,omitempty"`
	RearAntiRoll  *float64 `json:"rearAntiRollBar,omitempty"`
}

type TransmissionSetup struct {
	LinePressureBase *float64    `json:"linePressureBase,omitempty"`
	ShiftPoints      ShiftPoints `json:"shiftPoints"`
	GearRatios       GearRatios  `json:"gearRatios"`
	FinalDrive       *float64    `json:"finalDrive,omitempty"`
}

type WeightSetup struct {
	TotalWeight        *float64 `json:"totalWeight,omitempty"`
	WeightDistribution *float64 `json:"weightDistribution,omitempty"` // front percentage
	CornerBalance      *float64 `json:"cornerBalance,omitempty"`
}

type TireSetup struct {
	Compound     string  `json:"compound,omitempty"`
	BasePressure Corners `json:"basePressure"`
}

type AeroSetup struct {
	FrontSplitter string `json:"frontSplitter,omitempty"`
	RearWing      string `json:"rearWing,omitempty"`
	Undertray     string `json:"undertray,omitempty"`
}

// ApplyDefaults fills unset fields with the values a new setup starts with.
func (s *CarSetup) ApplyDefaults() {
	if s.Make == "" {
		s.Make = DefaultSetupMake
	}
	if s.EngineType == "" {
		s.EngineType = DefaultSetupEngineType
	}
	if s.Parameters.Engine.StoichRatioTarget == nil {
		v := DefaultStoichRatioTarget
		s.Parameters.Engine.StoichRatioTarget = &v
	}
	if s.Parameters.Weight.WeightDistribution == nil {
		v := DefaultFrontWeightPct
		s.Parameters.Weight.WeightDistribution = &v
	}
}
