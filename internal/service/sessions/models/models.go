package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentModels "github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	catalogModels "github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// ActionType тип действия мастера записи
type ActionType string

const (
	ActionSelectService   ActionType = "select_service"
	ActionSelectDate      ActionType = "select_date"
	ActionSelectSlot      ActionType = "select_slot"
	ActionSetClientName   ActionType = "set_client_name"
	ActionBack            ActionType = "back"
	ActionSubmit          ActionType = "submit"
	ActionReset           ActionType = "reset"
	ActionRefresh         ActionType = "refresh"
	ActionEnterManage     ActionType = "enter_manage"
	ActionLeaveManage     ActionType = "leave_manage"
	ActionSearch          ActionType = "search"
	ActionCancel          ActionType = "cancel"
	ActionStartReschedule ActionType = "start_reschedule"
)

// Request модели

// StartSessionRequest запрос на открытие мастера записи
type StartSessionRequest struct {
	OwnerID  int64           `json:"ownerId" validate:"required,gt=0"`
	Audience domain.Audience `json:"audience" validate:"required,oneof=operator public"`
}

// ActionRequest одно действие пользователя в мастере.
// Используются только поля, нужные для данного Type.
type ActionRequest struct {
	Type          ActionType `json:"type" validate:"required"`
	ServiceID     int64      `json:"serviceId,omitempty"`
	Date          string     `json:"date,omitempty"` // "2026-10-20"
	Slot          string     `json:"slot,omitempty"` // "10:30"
	ClientName    string     `json:"clientName,omitempty" validate:"max=255"`
	Query         string     `json:"query,omitempty" validate:"max=100"`
	AppointmentID int64      `json:"appointmentId,omitempty"`
}

// Response модели

// SessionResponse состояние мастера для клиента
type SessionResponse struct {
	ID            string                                  `json:"id"`
	OwnerID       int64                                   `json:"ownerId"`
	Audience      string                                  `json:"audience"`
	Step          string                                  `json:"step"`
	Intent        string                                  `json:"intent"`
	IdentityLabel string                                  `json:"identityLabel"`
	Services      []catalogModels.ServiceResponse         `json:"services"`
	ServiceID     int64                                   `json:"serviceId,omitempty"`
	Date          string                                  `json:"date,omitempty"`
	Slots         []string                                `json:"slots"`
	SelectedSlot  string                                  `json:"selectedSlot,omitempty"`
	ClientName    string                                  `json:"clientName,omitempty"`
	RescheduleID  int64                                   `json:"rescheduleId,omitempty"`
	SearchQuery   string                                  `json:"searchQuery,omitempty"`
	Found         []appointmentModels.AppointmentResponse `json:"found,omitempty"`
	Result        *appointmentModels.AppointmentResponse  `json:"result,omitempty"`
	Pending       bool                                    `json:"pending"`
	CanSubmit     bool                                    `json:"canSubmit"`
	LastError     string                                  `json:"lastError,omitempty"`
	UpdatedAt     time.Time                               `json:"updatedAt"`
}

// FromDomainSession конвертирует состояние мастера в DTO
func FromDomainSession(s domain.BookingSession, identityLabel string, canSubmit bool) *SessionResponse {
	resp := &SessionResponse{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Audience:      string(s.Audience),
		Step:          string(s.Step),
		Intent:        string(s.Intent),
		IdentityLabel: identityLabel,
		Services:      []catalogModels.ServiceResponse{},
		ServiceID:     s.ServiceID,
		Slots:         make([]string, 0, len(s.Slots)),
		SelectedSlot:  s.SelectedSlot.String(),
		ClientName:    s.ClientName,
		RescheduleID:  s.RescheduleID,
		SearchQuery:   s.SearchQuery,
		Pending:       s.Pending,
		CanSubmit:     canSubmit,
		LastError:     s.LastError,
		UpdatedAt:     s.UpdatedAt,
	}

	if !s.Date.IsZero() {
		resp.Date = s.Date.Format(domain.DateFormat)
	}
	if s.Snapshot != nil {
		resp.Services = catalogModels.FromDomainServiceList(s.Snapshot.Services).Services
	}
	for _, slot := range s.Slots {
		resp.Slots = append(resp.Slots, slot.String())
	}
	if len(s.Found) > 0 {
		resp.Found = appointmentModels.FromDomainAppointmentList(s.Found).Appointments
	}
	resp.Result = appointmentModels.FromDomainAppointment(s.Result)

	return resp
}
