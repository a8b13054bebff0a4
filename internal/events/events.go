package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of account event.
type Type string

// Account event types.
const (
	UserSignedUp   Type = "user.signed_up"
	UserLoggedIn   Type = "user.logged_in"
	LoginFailed    Type = "user.login_failed"
	UserLoggedOut  Type = "user.logged_out"
	SessionRevoked Type = "session.revoked"
	UserCreated    Type = "user.created"
	UserUpdated    Type = "user.updated"
	UserDeleted    Type = "user.deleted"
)

// AccountEvent records something that happened to a user account.
// Events never carry passwords or password hashes.
type AccountEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	UserID     int64           `json:"user_id"`
	Email      string          `json:"email,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewAccountEvent creates an event of the given type for a user.
// metadata may be nil; otherwise it is serialized as JSON.
func NewAccountEvent(eventType Type, userID int64, email string, metadata any) (*AccountEvent, error) {
	var raw json.RawMessage
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &AccountEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		Metadata:   raw,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// UnmarshalMetadata decodes the event metadata into v.
func (e *AccountEvent) UnmarshalMetadata(v any) error {
	return json.Unmarshal(e.Metadata, v)
}

// EventHandler processes account events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *AccountEvent) error
}

// EventEmitter publishes account events to registered handlers.
type EventEmitter interface {
	// EmitEvent publishes event to subscribed handlers and returns their
	// joined errors, if any.
	EmitEvent(ctx context.Context, event *AccountEvent) error
}

// HandlerFunc adapts an ordinary function to EventHandler.
type HandlerFunc func(ctx context.Context, event *AccountEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *AccountEvent) error {
	return f(ctx, event)
}
