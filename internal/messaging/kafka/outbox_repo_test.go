package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent_StartsPendingWithFreshID(t *testing.T) {
	event := NewEvent("attendance.record.v1", "attendance_record", "agg-1", "attendance.recorded", "req-1", []byte(`{}`))

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, OutboxStatusPending, event.Status)
	assert.Equal(t, "attendance.record.v1", event.Topic)
	assert.NoError(t, event.Validate())
}

func TestOutboxEvent_Validate(t *testing.T) {
	valid := NewEvent("topic", "agg", "id", "type", "", []byte(`{}`))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, missingTopic.Validate())

	missingPayload := valid
	missingPayload.Payload = nil
	assert.Error(t, missingPayload.Validate())

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, badStatus.Validate())
}
