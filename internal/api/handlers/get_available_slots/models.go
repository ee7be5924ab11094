package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsQuery query параметры запроса
type AvailableSlotsQuery struct {
	ServiceID int64  `schema:"serviceId" validate:"required,gt=0"`
	Date      string `schema:"date" validate:"required,date"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	OwnerID         int64    `json:"ownerId"`
	ServiceID       int64    `json:"serviceId"`
	DurationMinutes int      `json:"durationMinutes"`
	Open            bool     `json:"open"`
	OpensAt         string   `json:"opensAt,omitempty"`
	ClosesAt        string   `json:"closesAt,omitempty"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func (q *AvailableSlotsQuery) ToUseCaseRequest(ownerID int64) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, q.Date)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		OwnerID:   ownerID,
		ServiceID: q.ServiceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(ownerID int64, resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	out := &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		OwnerID:         ownerID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Open:            resp.Day.Enabled,
		Slots:           slots,
	}
	// У выходного дня окно не показываем
	if resp.Day.Enabled {
		out.OpensAt = resp.Day.Start.String()
		out.ClosesAt = resp.Day.End.String()
	}
	return out
}
