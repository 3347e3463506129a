package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account event types.
const (
	UserRegistered = "user.registered"
	UserDeleted    = "user.deleted"
)

// AccountEvent records a change to a user account that other components
// (e-mail notification in particular) react to. It carries a snapshot of
// the user because the account may no longer exist when it is handled.
type AccountEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of UserRegistered or UserDeleted
	Type string `json:"type"`

	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAccountEvent creates an AccountEvent of the given type.
func NewAccountEvent(eventType string, userID uuid.UUID, name, email string) *AccountEvent {
	return &AccountEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Name:       name,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AccountEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *AccountEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *AccountEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *AccountEvent) error {
	return f(ctx, event)
}
