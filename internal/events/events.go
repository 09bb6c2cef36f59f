// Package events defines the domain events the services emit.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TopicUsers    = "users"
	TopicListings = "listings"
	TopicMessages = "messages"
	TopicCoins    = "coins"
)

const (
	UserRegistered   = "user.registered"
	ListingCreated   = "listing.created"
	ListingDeleted   = "listing.deleted"
	ListingFeatured  = "listing.featured"
	MessageSent      = "message.sent"
	DepositCompleted = "deposit.completed"
)

type Event struct {
	ID        string          `json:"event_id"`
	Type      string          `json:"type"`
	UserID    int64           `json:"user_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// New builds an event with a fresh id. A payload that fails to marshal is
// dropped; the envelope is still useful on its own.
func New(eventType string, userID int64, payload any) Event {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			evt.Payload = raw
		}
	}
	return evt
}

//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks

type Publisher interface {
	Publish(ctx context.Context, topic string, evt Event) error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, Event) error { return nil }
