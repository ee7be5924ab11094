package list_appointments

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// ListQuery query параметры списка записей
type ListQuery struct {
	Date             string `schema:"date" validate:"omitempty,date"`
	Status           string `schema:"status" validate:"omitempty,oneof=confirmed cancelled rescheduled"`
	IncludeCancelled bool   `schema:"includeCancelled"`
}

// ToServiceRequest конвертирует query в модель сервиса
func (q *ListQuery) ToServiceRequest(ownerID int64) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{
		OwnerID:          ownerID,
		IncludeCancelled: q.IncludeCancelled,
	}

	if q.Date != "" {
		date, err := time.Parse(domain.DateFormat, q.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}
	if q.Status != "" {
		status := q.Status
		req.Status = &status
	}

	return req, nil
}
