package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// KafkaPublisher публикует события о записях в Kafka.
// Ключ сообщения ID мастера, поэтому события одного мастера идут по порядку.
type KafkaPublisher struct {
	writer messageWriter
	logger Logger
	now    func() time.Time
}

// NewKafkaPublisher создает издателя для списка брокеров и топика
func NewKafkaPublisher(brokers []string, topic string, log Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, logger: log, now: time.Now}
}

// Publish отправляет событие о записи
func (p *KafkaPublisher) Publish(ctx context.Context, eventType EventType, appt domain.Appointment) error {
	event := Event{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OwnerID:     appt.OwnerID,
		Appointment: appt,
		OccurredAt:  p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(appt.OwnerID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s appointment=%d: %v", ErrPublish, eventType, appt.ID, err)
	}

	p.logger.Info("Events: published %s for appointment=%d (event_id=%s)", eventType, appt.ID, event.EventID)
	return nil
}

// Close сбрасывает буфер и закрывает соединения
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда брокеры не настроены
type NoopPublisher struct{}

// Publish ничего не делает
func (NoopPublisher) Publish(context.Context, EventType, domain.Appointment) error { return nil }

// Close ничего не делает
func (NoopPublisher) Close() error { return nil }

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
