package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// SnapshotLoader загружает снимок данных мастера (услуги, часы, записи)
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, ownerID int64) (*domain.OwnerSnapshot, error)
}

// Booker внешний исполнитель записи. Должен атомарно отклонять пересечения,
// возвращая ошибку, для которой errors.Is(err, ErrSlotTaken) == true.
type Booker interface {
	CreateAppointment(ctx context.Context, req CreateRequest) (*domain.Appointment, error)
	RescheduleAppointment(ctx context.Context, req RescheduleRequest) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, ownerID, appointmentID int64) error
	SearchAppointments(ctx context.Context, ownerID int64, clientName string) ([]domain.Appointment, error)
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

// CreateRequest запрос на создание записи (статус confirmed)
type CreateRequest struct {
	OwnerID    int64
	ServiceID  int64
	ClientName string
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// RescheduleRequest запрос на перенос существующей записи (статус rescheduled)
type RescheduleRequest struct {
	OwnerID       int64
	AppointmentID int64
	ServiceID     int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// RealTimeProvider реальный провайдер времени в заданной таймзоне
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
