package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
)

const (
	msgInvalidPath        = "некорректный ID мастера или записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotFound           = "запись не найдена"
	msgCancelled          = "отмененную запись нельзя перенести"
	msgServiceNotFound    = "услуга записи удалена, перенос невозможен"
	msgSlotTaken          = "это время уже занято, выберите другое"
	msgDayClosed          = "мастер не работает в выбранный день"
	msgOutsideHours       = "визит не помещается в часы работы"
	msgTooLateToBook      = "на сегодня запись возможна не позднее чем за 30 минут"
	msgInvalidDate        = "новая дата в прошлом"
	msgInvalidInput       = "некорректные данные переноса"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/owners/{ownerId}/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details, err := handlers.Validate(&req); err != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(ownerID, appointmentID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not found: owner_id=%d, appointment_id=%d", ownerID, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrAppointmentCancelled):
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, rescheduleBooking.ErrServiceNotFound):
			handlers.RespondUnprocessable(w, msgServiceNotFound)

		case errors.Is(err, rescheduleBooking.ErrSlotTaken):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot taken: appointment_id=%d, date=%s, start=%s",
				appointmentID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, rescheduleBooking.ErrDayClosed):
			handlers.RespondUnprocessable(w, msgDayClosed)

		case errors.Is(err, rescheduleBooking.ErrOutsideHours):
			handlers.RespondUnprocessable(w, msgOutsideHours)

		case errors.Is(err, rescheduleBooking.ErrTooLateToBook):
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment moved: appointment_id=%d, date=%s, start=%s",
		appointmentID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
