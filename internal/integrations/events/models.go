package events

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// EventType тип события о записи
type EventType string

const (
	AppointmentCreated     EventType = "appointment.created"
	AppointmentRescheduled EventType = "appointment.rescheduled"
	AppointmentCancelled   EventType = "appointment.cancelled"
)

// Event событие жизненного цикла записи
type Event struct {
	EventID     string             `json:"eventId"`
	Type        EventType          `json:"type"`
	OwnerID     int64              `json:"ownerId"`
	Appointment domain.Appointment `json:"appointment"`
	OccurredAt  time.Time          `json:"occurredAt"`
}
