package service

import (
	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/recommend"
)

// CarPatch holds the fields of a car to change. Unset fields keep their value.
type CarPatch struct {
	Name  omit.Val[string]         `json:"name"`
	Make  omit.Val[string]         `json:"make"`
	Model omit.Val[string]         `json:"model"`
	Year  omitnull.Val[int]        `json:"year"`
	VIN   omitnull.Val[string]     `json:"vin"`
	Specs omit.Val[model.CarSpecs] `json:"specs"`
}

// ComplianceRequest checks either a stored car or inline specs.
type ComplianceRequest struct {
	CarID    *uuid.UUID      `json:"carId,omitempty"`
	Specs    *model.CarSpecs `json:"specs,omitempty"`
	Rulebook string          `json:"rulebook,omitempty"`
}

type MetricStats struct {
	CarID  uuid.UUID `json:"carId"`
	Name   string    `json:"name"`
	Unit   string    `json:"unit,omitempty"`
	Count  int       `json:"count"`
	Mean   *float64  `json:"mean,omitempty"`
	Min    *float64  `json:"min,omitempty"`
	Max    *float64  `json:"max,omitempty"`
	StdDev *float64  `json:"stdDev,omitempty"`
}

type SessionPatch struct {
	CarID          omitnull.Val[uuid.UUID]        `json:"carId"`
	Name           omit.Val[string]               `json:"name"`
	TrackName      omit.Val[string]               `json:"trackName"`
	TrackCondition omit.Val[model.TrackCondition] `json:"trackCondition"`
	Notes          omit.Val[string]               `json:"notes"`
	TopSpeed       omitnull.Val[float64]          `json:"topSpeed"`
	Temperature    omitnull.Val[float64]          `json:"temperature"`
	Humidity       omitnull.Val[float64]          `json:"humidity"`
	DriverFeedback omit.Val[string]               `json:"driverFeedback"`
	MechanicNotes  omit.Val[string]               `json:"mechanicNotes"`
}

// EndSessionRequest carries the values captured when a session ends.
type EndSessionRequest struct {
	TopSpeed       *float64 `json:"topSpeed,omitempty"`
	DriverFeedback string   `json:"driverFeedback,omitempty"`
	MechanicNotes  string   `json:"mechanicNotes,omitempty"`
}

type SetupPatch struct {
	CarID      omitnull.Val[uuid.UUID]         `json:"carId"`
	Name       omit.Val[string]                `json:"name"`
	Make       omit.Val[string]                `json:"make"`
	Model      omit.Val[string]                `json:"model"`
	Year       omitnull.Val[int]               `json:"year"`
	EngineType omit.Val[string]                `json:"engineType"`
	Parameters omit.Val[model.SetupParameters] `json:"parameters"`
	Notes      omit.Val[string]                `json:"notes"`
}

// SessionReport is the analysis of a session together with the suggestions
// the session rules produce. Suggestions are not stored.
type SessionReport struct {
	Analysis    *analysis.SessionAnalysis `json:"analysis"`
	Suggestions []recommend.Suggestion    `json:"suggestions"`
	Summary     string                    `json:"summary"`
}

type DashboardTotals struct {
	Cars                   int `json:"cars"`
	Sessions               int `json:"sessions"`
	ActiveSessions         int `json:"activeSessions"`
	Metrics                int `json:"metrics"`
	PendingRecommendations int `json:"pendingRecommendations"`
	HighPriorityPending    int `json:"highPriorityPending"`
}

type Dashboard struct {
	Totals                 DashboardTotals         `json:"totals"`
	LatestMetrics          []*model.Metric         `json:"latestMetrics"`
	PendingRecommendations []*model.Recommendation `json:"pendingRecommendations"`
	RecentSessions         []*model.Session        `json:"recentSessions"`
}

// ImportResult reports the outcome of a csv import.
type ImportResult struct {
	Imported int `json:"imported"`
}
