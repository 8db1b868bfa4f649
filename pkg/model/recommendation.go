package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type (
	Priority             string
	RecommendationStatus string
)

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

const (
	StatusPending     RecommendationStatus = "PENDING"
	StatusAccepted    RecommendationStatus = "ACCEPTED"
	StatusDenied      RecommendationStatus = "DENIED"
	StatusImplemented RecommendationStatus = "IMPLEMENTED"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (s RecommendationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDenied, StatusImplemented:
		return true
	}
	return false
}

var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[RecommendationStatus][]RecommendationStatus{
	StatusPending:  {StatusAccepted, StatusDenied},
	StatusAccepted: {StatusImplemented},
}

// CanTransition reports whether a recommendation in status s may move to next.
func (s RecommendationStatus) CanTransition(next RecommendationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Recommendation struct {
	ID             uuid.UUID            `json:"id"`
	CarID          *uuid.UUID           `json:"carId,omitempty"`
	SessionID      *uuid.UUID           `json:"sessionId,omitempty"`
	MetricID       *uuid.UUID           `json:"metricId,omitempty"`
	Category       string               `json:"category"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Change         string               `json:"change,omitempty"`
	ExpectedImpact string               `json:"expectedImpact,omitempty"`
	Priority       Priority             `json:"priority"`
	Status         RecommendationStatus `json:"status"`
	Response       string               `json:"response,omitempty"`
	RespondedAt    *time.Time           `json:"respondedAt,omitempty"`
	RespondedBy    string               `json:"respondedBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// Respond moves the recommendation to next and records who did it.
//
//nolint:whitespace // editor/linter issue
func (r *Recommendation) Respond(
	next RecommendationStatus, response, by string, at time.Time,
) error {
	if !r.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	if response != "" {
		r.Response = response
	}
	r.RespondedBy = by
	r.RespondedAt = &at
	r.UpdatedAt = at
	return nil
}
