package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	OwnerID    int64            // ID мастера
	ServiceID  int64            // ID услуги
	ClientName string           // Имя клиента
	Date       time.Time        // Дата визита (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID записи
	OwnerID         int64            // ID мастера
	ServiceID       int64            // ID услуги
	ServiceName     string           // Название услуги
	ClientName      string           // Имя клиента
	Date            time.Time        // Дата визита
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
