package update_business_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/hours"
	"github.com/m04kA/SMC-SalonBooking/internal/service/hours/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidInput       = "неизвестный день недели"
	msgInvalidSchedule    = "некорректные часы работы: начало должно быть раньше конца, формат HH:MM"
)

type Handler struct {
	service HoursService
	logger  Logger
}

func NewHandler(service HoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/business-hours
// Обновляет часы работы самого мастера; непереданные дни не меняются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.UpdateHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details, err := handlers.Validate(&req); err != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	result, err := h.service.Update(r.Context(), ownerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, hours.ErrInvalidSchedule):
			h.logger.Warn("PUT /business-hours - Invalid schedule: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, hours.ErrInvalidInput):
			h.logger.Warn("PUT /business-hours - Invalid input: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /business-hours - Failed: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /business-hours - Business hours updated: owner_id=%d", ownerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
