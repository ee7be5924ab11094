package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	occurred := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	p := &KafkaPublisher{writer: writer, logger: logger.NewNop(), now: func() time.Time { return occurred }}

	appt := domain.Appointment{ID: 12, OwnerID: 7, ClientName: "Ana", StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed}
	require.NoError(t, p.Publish(context.Background(), AppointmentCreated, appt))

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	assert.Equal(t, "7", string(msg.Key))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, AppointmentCreated, event.Type)
	assert.Equal(t, int64(12), event.Appointment.ID)
	assert.True(t, occurred.Equal(event.OccurredAt))
	assert.NotEmpty(t, event.EventID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.EventID, headers["event_id"])
	assert.Equal(t, "appointment.created", headers["event_type"])

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	p := &KafkaPublisher{writer: writer, logger: logger.NewNop(), now: time.Now}

	err := p.Publish(context.Background(), AppointmentCancelled, domain.Appointment{ID: 1})
	assert.ErrorIs(t, err, ErrPublish)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Nil(t, SplitBrokers(""))
}
