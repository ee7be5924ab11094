package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// IsValid reports whether s is a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// Appointment is one booked visit on an owner's calendar.
// A reschedule mutates Date/StartTime/EndTime in place.
type Appointment struct {
	ID          int64             `json:"id"`
	OwnerID     int64             `json:"ownerId"`
	ServiceID   int64             `json:"serviceId"` // 0 when the service was deleted
	ServiceName string            `json:"serviceName"`
	ClientName  string            `json:"clientName"`
	Date        time.Time         `json:"date"`
	StartTime   types.TimeString  `json:"startTime"`
	EndTime     types.TimeString  `json:"endTime"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IsActive returns true if the appointment still occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.IsActive()
}

// CanBeRescheduled returns true if the appointment can be moved
func (a *Appointment) CanBeRescheduled() bool {
	return a.IsActive()
}

// IsOnDate compares calendar dates as YYYY-MM-DD strings
func (a *Appointment) IsOnDate(date time.Time) bool {
	return a.Date.Format(DateFormat) == date.Format(DateFormat)
}

// Interval returns the [start, end) minute range of the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime.Minutes(), End: a.EndTime.Minutes()}
}

// DurationMinutes returns end - start
func (a *Appointment) DurationMinutes() int {
	return a.EndTime.Minutes() - a.StartTime.Minutes()
}

// DisplayServiceName returns the cached service name or a placeholder for deleted services
func (a *Appointment) DisplayServiceName() string {
	if a.ServiceName == "" {
		return RemovedServiceName
	}
	return a.ServiceName
}

// AppointmentsFilter фильтр для выборки записей мастера
type AppointmentsFilter struct {
	OwnerID         int64              // Обязательный параметр
	Date            *time.Time         // Конкретная дата (опционально)
	FromDate        *time.Time         // Записи начиная с даты (опционально)
	ClientName      *string            // Подстрока имени клиента без учета регистра (опционально)
	Status          *AppointmentStatus // Конкретный статус (опционально)
	IncludeInactive bool               // Включать ли отмененные записи
}
