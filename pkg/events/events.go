// Package events publishes change notifications for stored entities.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

const DefaultSubjectPrefix = "racemetrics"

type (
	Entity string
	Action string
)

const (
	EntityCar            Entity = "car"
	EntityMetric         Entity = "metric"
	EntitySession        Entity = "session"
	EntityDataPoint      Entity = "datapoint"
	EntitySetup          Entity = "setup"
	EntityRecommendation Entity = "recommendation"
)

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionEnded     Action = "ended"
	ActionResponded Action = "responded"
)

// Event is the message body. Payload carries the entity after the change,
// it is nil for deletions.
type Event struct {
	Entity  Entity    `json:"entity"`
	Action  Action    `json:"action"`
	ID      uuid.UUID `json:"id"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// Publisher delivers events. Delivery is best effort, a failing publisher
// must not fail the operation that caused the event.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close()
}

// Subject returns the subject an event is published on.
func Subject(prefix string, e Event) string {
	return prefix + "." + string(e.Entity) + "." + string(e.Action)
}

type noop struct{}

func NewNoopPublisher() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) {}
func (noop) Close()                         {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Publisher = (*Recorder)(nil)

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Close() {}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Event, len(r.events))
	copy(ret, r.events)
	return ret
}
