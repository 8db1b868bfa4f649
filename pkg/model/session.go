package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type (
	SessionStatus  string
	TrackCondition string
)

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

const (
	TrackDry   TrackCondition = "dry"
	TrackWet   TrackCondition = "wet"
	TrackDamp  TrackCondition = "damp"
	TrackMixed TrackCondition = "mixed"
)

func (c TrackCondition) Valid() bool {
	switch c {
	case TrackDry, TrackWet, TrackDamp, TrackMixed:
		return true
	}
	return false
}

type Session struct {
	ID             uuid.UUID      `json:"id"`
	CarID          *uuid.UUID     `json:"carId,omitempty"`
	Name           string         `json:"name"`
	TrackName      string         `json:"trackName,omitempty"`
	TrackCondition TrackCondition `json:"trackCondition"`
	Notes          string         `json:"notes,omitempty"`
	Status         SessionStatus  `json:"status"`
	TopSpeed       *float64       `json:"topSpeed,omitempty"`
	Temperature    *float64       `json:"temperature,omitempty"`
	Humidity       *float64       `json:"humidity,omitempty"`
	DriverFeedback string         `json:"driverFeedback,omitempty"`
	MechanicNotes  string         `json:"mechanicNotes,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	EndedAt        *time.Time     `json:"endedAt,omitempty"`
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}
