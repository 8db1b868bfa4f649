package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type MetricType string

const (
	MetricTypePhysical   MetricType = "PHYSICAL"
	MetricTypeElectronic MetricType = "ELECTRONIC"
)

func (t MetricType) Valid() bool {
	return t == MetricTypePhysical || t == MetricTypeElectronic
}

type MetricCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
}

type Metric struct {
	ID         uuid.UUID  `json:"id"`
	CarID      uuid.UUID  `json:"carId"`
	CategoryID uuid.UUID  `json:"categoryId"`
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit,omitempty"`
	Type       MetricType `json:"type"`
	Component  string     `json:"component,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	RecordedAt time.Time  `json:"recordedAt"`
}

// DefaultCategories are the categories a fresh installation starts with.
var DefaultCategories = []MetricCategory{
	{
		Name:        "Engine Performance",
		Description: "Engine-related metrics including power, torque, and efficiency",
		Color:       "#ef4444",
	},
	{
		Name:        "Suspension Setup",
		Description: "Suspension geometry, spring rates, and damping settings",
		Color:       "#f97316",
	},
	{
		Name:        "Tire Performance",
		Description: "Tire pressure, temperature, and wear patterns",
		Color:       "#eab308",
	},
	{
		Name:        "Aerodynamics",
		Description: "Downforce, drag, and aerodynamic balance",
		Color:       "#22c55e",
	},
	{
		Name:        "Transmission",
		Description: "Gear ratios, shift points, and drivetrain efficiency",
		Color:       "#3b82f6",
	},
	{
		Name:        "Braking System",
		Description: "Brake balance, pad compounds, and cooling",
		Color:       "#8b5cf6",
	},
	{
		Name:        "Weight Distribution",
		Description: "Weight balance, ballast placement, and center of gravity",
		Color:       "#ec4899",
	},
	{
		Name:        "Electronics",
		Description: "ECU settings, data logging, and electronic aids",
		Color:       "#06b6d4",
	},
	{
		Name:        "Safety Equipment",
		Description: "Roll cage, harnesses, and safety system checks",
		Color:       "#64748b",
	},
	{
		Name:        "Fuel System",
		Description: "Fuel consumption, pump performance, and delivery",
		Color:       "#84cc16",
	},
}
