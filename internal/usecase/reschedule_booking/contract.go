package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString, status domain.AppointmentStatus) (*domain.Appointment, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Service, error)
}

// HoursRepository интерфейс репозитория рабочих часов
type HoursRepository interface {
	GetByOwner(ctx context.Context, ownerID int64) (domain.WeeklyHours, error)
}

// EventPublisher интерфейс издателя событий о записях
type EventPublisher interface {
	Publish(ctx context.Context, eventType events.EventType, appt domain.Appointment) error
}

// Metrics метрики конфликтов записи
type Metrics interface {
	IncBookingConflict(operation string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
