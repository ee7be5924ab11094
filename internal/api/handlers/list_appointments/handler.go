package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgUnauthorized     = "требуется авторизация"
	msgInvalidQuery     = "некорректные параметры запроса"
	msgValidationFailed = "ошибка валидации запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments?date=&status=&includeCancelled=
// Записи самого мастера (owner = пользователь), сначала новые
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var query ListQuery
	if err := handlers.DecodeQuery(r.URL.Query(), &query); err != nil {
		h.logger.Warn("GET /appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	if details, err := handlers.Validate(&query); err != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	req, err := query.ToServiceRequest(ownerID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)
		default:
			h.logger.Error("GET /appointments - Failed to list appointments: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Listed %d appointments: owner_id=%d", len(result.Appointments), ownerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
