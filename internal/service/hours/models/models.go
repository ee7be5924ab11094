package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DayScheduleDTO часы работы одного дня недели
type DayScheduleDTO struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // "09:00"
	End     string `json:"end"`   // "18:00"
}

// Request модели

// UpdateHoursRequest запрос на обновление часов работы.
// Ключи - дни недели ("monday" ... "sunday"), непереданные дни не меняются.
type UpdateHoursRequest struct {
	Days map[string]DayScheduleDTO `json:"days" validate:"required,min=1,max=7"`
}

// ToDomainHours конвертирует запрос в domain модель.
// Неизвестный день недели - ошибка.
func (r *UpdateHoursRequest) ToDomainHours() (domain.WeeklyHours, error) {
	hours := make(domain.WeeklyHours, len(r.Days))
	for key, day := range r.Days {
		weekday, ok := domain.ParseWeekdayKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", key)
		}
		hours[weekday] = domain.DaySchedule{
			Enabled: day.Enabled,
			Start:   types.TimeString(day.Start),
			End:     types.TimeString(day.End),
		}
	}
	return hours, nil
}

// Response модели

// HoursResponse часы работы мастера на всю неделю
type HoursResponse struct {
	OwnerID int64                     `json:"ownerId"`
	Days    map[string]DayScheduleDTO `json:"days"`
}

// FromDomainHours конвертирует domain модель в DTO
func FromDomainHours(ownerID int64, hours domain.WeeklyHours) *HoursResponse {
	resp := &HoursResponse{
		OwnerID: ownerID,
		Days:    make(map[string]DayScheduleDTO, 7),
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		schedule := hours.ForDate(dateOf(day))
		resp.Days[domain.WeekdayKey(day)] = DayScheduleDTO{
			Enabled: schedule.Enabled,
			Start:   schedule.Start.String(),
			End:     schedule.End.String(),
		}
	}

	return resp
}

// dateOf возвращает любую дату с нужным днем недели (4 января 1970 - воскресенье)
func dateOf(day time.Weekday) time.Time {
	return time.Date(1970, 1, 4+int(day), 0, 0, 0, 0, time.UTC)
}
