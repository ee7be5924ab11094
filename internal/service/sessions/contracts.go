package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
)

// SessionStore хранилище состояний мастера записи
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.BookingSession, error)
	Save(ctx context.Context, session domain.BookingSession) error
	Delete(ctx context.Context, id string) error
}

// CatalogService источник услуг мастера
type CatalogService interface {
	ListServices(ctx context.Context, ownerID int64) ([]domain.Service, error)
}

// HoursService источник часов работы мастера
type HoursService interface {
	GetWeeklyHours(ctx context.Context, ownerID int64) (domain.WeeklyHours, error)
}

// AppointmentRepository чтение записей для снимка
type AppointmentRepository interface {
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error)
}

// AppointmentsService поиск и отмена записей
type AppointmentsService interface {
	FindByClientName(ctx context.Context, ownerID int64, query string) ([]domain.Appointment, error)
	Cancel(ctx context.Context, ownerID, appointmentID int64) error
}

// CreateBookingUseCase создание записи
type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// RescheduleBookingUseCase перенос записи
type RescheduleBookingUseCase interface {
	Execute(ctx context.Context, req *reschedule_booking.Request) (*reschedule_booking.Response, error)
}

// Metrics метрики мастера записи
type Metrics interface {
	IncWizardSession(audience string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
