package hours

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// HoursRepository интерфейс репозитория часов работы
type HoursRepository interface {
	GetByOwner(ctx context.Context, ownerID int64) (domain.WeeklyHours, error)
	Upsert(ctx context.Context, ownerID int64, hours domain.WeeklyHours) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
