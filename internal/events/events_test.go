package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskRequestEvent(t *testing.T) {
	type testPayload struct {
		ProfileID string `json:"profile_id"`
		Count     int    `json:"count"`
	}

	payload := testPayload{ProfileID: "default", Count: 10}

	event, err := NewTaskRequestEvent("item_generation", payload)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "item_generation", event.Type)
	assert.WithinDuration(t, time.Now().UTC(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestUnmarshalPayload(t *testing.T) {
	event, err := NewTaskRequestEvent("item_generation", map[string]int{"count": 5})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, 5, decoded["count"])
}

func TestNewTaskRequestEventUnserializablePayload(t *testing.T) {
	// Channels cannot be marshaled to JSON.
	_, err := NewTaskRequestEvent("item_generation", make(chan int))
	assert.Error(t, err)
}
