package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Corners holds one optional value per wheel position.
type Corners struct {
	FrontLeft  *float64 `json:"frontLeft,omitempty"`
	FrontRight *float64 `json:"frontRight,omitempty"`
	RearLeft   *float64 `json:"rearLeft,omitempty"`
	RearRight  *float64 `json:"rearRight,omitempty"`
}

// Values returns the corner values in FL, FR, RL, RR order.
func (c Corners) Values() []*float64 {
	return []*float64{c.FrontLeft, c.FrontRight, c.RearLeft, c.RearRight}
}

func (c Corners) Empty() bool {
	return c.FrontLeft == nil && c.FrontRight == nil && c.RearLeft == nil && c.RearRight == nil
}

type EngineReading struct {
	SparkAdvance     *float64 `json:"sparkAdvance,omitempty"`
	FuelMilliseconds *float64 `json:"fuelMilliseconds,omitempty"`
	RevLimit         *float64 `json:"revLimit,omitempty"`
	StoichRatio      *float64 `json:"stoichRatio,omitempty"`
	RPM              *float64 `json:"rpm,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type SuspensionReading struct {
	Camber  Corners `json:"camber"`
	Caster  Corners `json:"caster"` // front only
	ToeIn   Corners `json:"toeIn"`
	Rebound Corners `json:"rebound"`
}

type ShiftPoints struct {
	OneToTwo    *float64 `json:"1to2,omitempty"`
	TwoToThree  *float64 `json:"2to3,omitempty"`
	ThreeToFour *float64 `json:"3to4,omitempty"`
}

type GearRatios struct {
	Gear1 *float64 `json:"gear1,omitempty"`
	Gear2 *float64 `json:"gear2,omitempty"`
	Gear3 *float64 `json:"gear3,omitempty"`
	Gear4 *float64 `json:"gear4,omitempty"`
}

type TransmissionReading struct {
	LinePressure *float64    `json:"linePressure,omitempty"`
	ShiftPoints  ShiftPoints `json:"shiftPoints"`
	GearRatios   GearRatios  `json:"gearRatios"`
}

type EnvironmentReading struct {
	TrackTemp      *float64       `json:"trackTemp,omitempty"`
	AmbientTemp    *float64       `json:"ambientTemp,omitempty"`
	Humidity       *float64       `json:"humidity,omitempty"`
	TrackCondition TrackCondition `json:"trackCondition,omitempty"`
}

// PerformanceDataPoint is a single reading logged during a session.
type PerformanceDataPoint struct {
	ID                 uuid.UUID           `json:"id"`
	SessionID          uuid.UUID           `json:"sessionId"`
	RecordedAt         time.Time           `json:"recordedAt"`
	Engine             EngineReading       `json:"engine"`
	Suspension         SuspensionReading   `json:"suspension"`
	TirePressures      Corners             `json:"tirePressures"`
	TireTemperatures   Corners             `json:"tireTemperatures"`
	TreadDepth         Corners             `json:"treadDepth"`
	Transmission       TransmissionReading `json:"transmission"`
	WeightDistribution Corners             `json:"weightDistribution"`
	LapTime            *float64            `json:"lapTime,omitempty"` // seconds
	FuelConsumption    *float64            `json:"fuelConsumption,omitempty"`
	Environmental      EnvironmentReading  `json:"environmental"`
}
