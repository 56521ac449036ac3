package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Constants(t *testing.T) {
	assert.Equal(t, EventType("task.added"), EventTaskAdded)
	assert.Equal(t, EventType("task.checked_out"), EventTaskCheckedOut)
	assert.Equal(t, EventType("task.checked_in"), EventTaskCheckedIn)
	assert.Equal(t, EventType("task.deleted"), EventTaskDeleted)
	assert.Equal(t, EventType("task.updated"), EventTaskUpdated)
	assert.Equal(t, EventType("store.paused"), EventStorePaused)
	assert.Equal(t, EventType("store.resumed"), EventStoreResumed)
	assert.Equal(t, EventType("store.reset"), EventStoreReset)
}

func TestNewEvent(t *testing.T) {
	data := map[string]interface{}{
		"task_id": "task-123",
		"state":   "RUNNING",
	}

	event := NewEvent(EventTaskCheckedOut, data)

	assert.Equal(t, EventTaskCheckedOut, event.Type)
	assert.Equal(t, data, event.Data)
	assert.False(t, event.Timestamp.IsZero())
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}

func TestEvent_ToJSON(t *testing.T) {
	event := &Event{
		Type:      EventTaskCheckedIn,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Data: map[string]interface{}{
			"task_id": "task-456",
			"state":   "SUCCEEDED",
		},
	}

	data, err := event.ToJSON()
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "task.checked_in", parsed["type"])
	assert.NotEmpty(t, parsed["timestamp"])
	assert.NotNil(t, parsed["data"])
}

func TestFromJSON(t *testing.T) {
	jsonData := `{
		"type": "task.deleted",
		"timestamp": "2024-01-15T10:30:00Z",
		"data": {"task_id": "task-789", "state": "DELETED"}
	}`

	event, err := FromJSON([]byte(jsonData))
	require.NoError(t, err)

	assert.Equal(t, EventTaskDeleted, event.Type)
	assert.Equal(t, "task-789", event.Data["task_id"])
	assert.Equal(t, "DELETED", event.Data["state"])
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("invalid json"))
	assert.Error(t, err)
}

func TestEvent_RoundTrip(t *testing.T) {
	original := NewEvent(EventStorePaused, map[string]interface{}{
		"client_id": "client-1",
	})

	data, err := original.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, original.Type, restored.Type)
	assert.Equal(t, original.Data["client_id"], restored.Data["client_id"])
}

func TestTaskEventData(t *testing.T) {
	data := TaskEventData("task-123", "RUNNING", map[string]interface{}{
		"priority": 2.0,
	})

	assert.Equal(t, "task-123", data["task_id"])
	assert.Equal(t, "RUNNING", data["state"])
	assert.Equal(t, 2.0, data["priority"])
}

func TestTaskEventData_NoExtra(t *testing.T) {
	data := TaskEventData("task-456", "QUEUED_NO_DEP", nil)

	assert.Equal(t, "task-456", data["task_id"])
	assert.Equal(t, "QUEUED_NO_DEP", data["state"])
	assert.Len(t, data, 2)
}

func TestStoreEventData(t *testing.T) {
	data := StoreEventData(map[string]interface{}{
		"client_id": "client-2",
	})

	assert.Equal(t, "client-2", data["client_id"])
	assert.Len(t, data, 1)
}

func TestStoreEventData_NoExtra(t *testing.T) {
	data := StoreEventData(nil)
	assert.Len(t, data, 0)
}
