package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	OwnerID   int64     // ID мастера
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата
	ServiceID       int64              // ID услуги
	DurationMinutes int                // Длительность услуги
	Day             domain.DaySchedule // Рабочее окно дня
	Slots           []types.TimeString // Доступные времена начала по возрастанию
}
