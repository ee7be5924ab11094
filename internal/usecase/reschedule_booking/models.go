package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на перенос записи. Услуга остается прежней.
type Request struct {
	OwnerID       int64            // ID мастера
	AppointmentID int64            // ID переносимой записи
	Date          time.Time        // Новая дата (без времени)
	StartTime     types.TimeString // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64
	OwnerID         int64
	ServiceID       int64
	ServiceName     string
	ClientName      string
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
