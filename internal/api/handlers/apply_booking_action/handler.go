package apply_booking_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotFound           = "сессия записи не найдена или истекла"
	msgForbidden          = "доступ запрещен"
	msgBusy               = "предыдущее действие еще выполняется"
	msgActionRejected     = "действие недоступно"
	msgInternal           = "внутренняя ошибка сервера"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking-sessions/{sessionId}/actions
// Тело: {"type": "select_service", "serviceId": 3} и т.д.
// При ошибке действия в поле data возвращается актуальное состояние мастера.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	userID, _ := middleware.GetUserID(r.Context())

	var req models.ActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/actions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details, err := handlers.Validate(&req); err != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	result, err := h.service.Apply(r.Context(), userID, sessionID, &req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("POST /booking-sessions/{id}/actions - %s failed: session_id=%s, error=%v", req.Type, sessionID, err)
		}
		handlers.RespondErrorWithData(w, status, messageFor(status, result), dataOf(result))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// statusFor переводит ошибки мастера и сервиса сессий в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound),
		errors.Is(err, wizard.ErrServiceNotFound),
		errors.Is(err, wizard.ErrAppointmentNotFound):
		return http.StatusNotFound

	case errors.Is(err, sessions.ErrAccessDenied),
		errors.Is(err, wizard.ErrNotAllowed):
		return http.StatusForbidden

	case errors.Is(err, wizard.ErrSlotTaken),
		errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, sessions.ErrUnknownAction),
		errors.Is(err, sessions.ErrInvalidInput),
		errors.Is(err, wizard.ErrInvalidInput),
		errors.Is(err, wizard.ErrDateInPast),
		errors.Is(err, wizard.ErrIdentityRequired):
		return http.StatusBadRequest

	case errors.Is(err, wizard.ErrSlotUnavailable),
		errors.Is(err, wizard.ErrNoServices),
		errors.Is(err, wizard.ErrNotLoaded):
		return http.StatusUnprocessableEntity

	case errors.Is(err, wizard.ErrSubmitTimeout):
		return http.StatusGatewayTimeout

	case errors.Is(err, wizard.ErrSubmitFailed),
		errors.Is(err, wizard.ErrLoadFailed),
		errors.Is(err, wizard.ErrSearchFailed),
		errors.Is(err, wizard.ErrCancelFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func messageFor(status int, result *models.SessionResponse) string {
	if result != nil && result.LastError != "" {
		return result.LastError
	}
	switch status {
	case http.StatusNotFound:
		if result == nil {
			return msgNotFound
		}
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusInternalServerError:
		return msgInternal
	}
	if status == http.StatusConflict && result == nil {
		return msgBusy
	}
	return msgActionRejected
}

// dataOf не дает nil-указателю превратиться в "data": null
func dataOf(result *models.SessionResponse) interface{} {
	if result == nil {
		return nil
	}
	return result
}
