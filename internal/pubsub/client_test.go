package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessage_DecodesStatUpdated(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	event := StatUpdatedEvent{
		EventID:   NewEventID(),
		UserID:    "U123",
		Game:      "Deadlock",
		Character: "Mo & Krill",
		Stat:      "Souls",
		Value:     4200,
		Previous:  3900,
		At:        at,
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	var decoded StatUpdatedEvent
	require.NoError(t, NewNoop().ProcessMessage(data, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "Mo & Krill", decoded.Character)
	assert.Equal(t, 4200, decoded.Value)
	assert.True(t, at.Equal(decoded.At))
}

func TestProcessMessage_RejectsGarbage(t *testing.T) {
	var decoded AccountLinkedEvent
	assert.Error(t, NewNoop().ProcessMessage([]byte{0xc1}, &decoded))
}

func TestNoop_SendMessageSucceeds(t *testing.T) {
	c := NewNoop()
	assert.NoError(t, c.SendMessage(context.Background(), EventAccountLinked, AccountLinkedEvent{UserID: "U1"}))
	assert.NoError(t, c.Close())
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, EventStatUpdated, EventTypeOf(map[string]string{"event_type": "stat-updated"}))
	assert.Equal(t, EventType(""), EventTypeOf(nil))
}

func TestNewEventID_IsUnique(t *testing.T) {
	assert.NotEqual(t, NewEventID(), NewEventID())
}
