package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventStatUpdated   EventType = "stat-updated"
	EventAccountLinked EventType = "account-linked"
)

// eventTypeAttribute is the message attribute carrying the EventType.
const eventTypeAttribute = "event_type"

// StatUpdatedEvent is published after a stat value is written.
type StatUpdatedEvent struct {
	EventID   string    `msgpack:"event_id"`
	UserID    string    `msgpack:"user_id"`
	Game      string    `msgpack:"game"`
	Character string    `msgpack:"character"`
	Stat      string    `msgpack:"stat"`
	Value     int       `msgpack:"value"`
	Previous  int       `msgpack:"previous"`
	At        time.Time `msgpack:"at"`
}

// AccountLinkedEvent is published the first time a user's PUUID is cached.
type AccountLinkedEvent struct {
	EventID   string    `msgpack:"event_id"`
	UserID    string    `msgpack:"user_id"`
	AccountID string    `msgpack:"account_id"`
	At        time.Time `msgpack:"at"`
}

// NewEventID returns a fresh identifier for an event.
func NewEventID() string {
	return uuid.NewString()
}
