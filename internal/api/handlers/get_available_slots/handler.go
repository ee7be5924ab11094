package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidOwnerID   = "некорректный ID мастера"
	msgInvalidQuery     = "некорректные параметры запроса"
	msgValidationFailed = "ошибка валидации запроса"
	msgInvalidDate      = "некорректная дата, ожидается YYYY-MM-DD не раньше сегодняшнего дня"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/{ownerId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		h.logger.Warn("GET /owners/{id}/available-slots - Invalid owner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	var query AvailableSlotsQuery
	if err := handlers.DecodeQuery(r.URL.Query(), &query); err != nil {
		h.logger.Warn("GET /owners/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	if details, err := handlers.Validate(&query); err != nil {
		h.logger.Warn("GET /owners/{id}/available-slots - Validation failed: %v", err)
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	useCaseReq, err := query.ToUseCaseRequest(ownerID)
	if err != nil {
		h.logger.Warn("GET /owners/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /owners/{id}/available-slots - Service not found: owner_id=%d, service_id=%d",
				ownerID, query.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /owners/{id}/available-slots - Failed to get slots: owner_id=%d, service_id=%d, error=%v",
				ownerID, query.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /owners/{id}/available-slots - Slots retrieved: owner_id=%d, service_id=%d, date=%s, slots_count=%d",
		ownerID, query.ServiceID, query.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(ownerID, result))
}
