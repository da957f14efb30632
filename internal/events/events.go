// Package events publishes portal domain events for downstream consumers
// such as mailers or analytics.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/milaap/internal/model"
)

// Event types. They double as AMQP routing keys.
const (
	ReportSubmitted     = "report.submitted"
	ReportReviewed      = "report.reviewed"
	ClaimSubmitted      = "claim.submitted"
	ClaimReviewed       = "claim.reviewed"
	ClaimCollected      = "claim.collected"
	CollectionConfirmed = "claim.confirmed"
	MatchCreated        = "match.created"
	AccountRegistered   = "account.registered"
)

// Event is a state change in the portal.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	ActorID    int64             `json:"actor_id"`
	ActorRole  model.Role        `json:"actor_role"`
	SubjectID  int64             `json:"subject_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// New builds an event with a fresh ID.
func New(typ string, actor model.Actor, subjectID int64, attrs map[string]string) Event {
	e := Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		SubjectID:  subjectID,
		Attributes: attrs,
	}
	if actor != nil {
		e.ActorID = actor.ActorID()
		e.ActorRole = actor.ActorRole()
	}
	return e
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
