package search_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgInvalidOwnerID = "некорректный ID мастера"
	msgInvalidQuery   = "некорректный поисковый запрос"
)

// SearchQuery query параметры поиска
type SearchQuery struct {
	Name string `schema:"name" validate:"max=100"`
}

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

// Handle GET /api/v1/owners/{ownerId}/appointments/search?name=
// Пустое имя возвращает пустой список
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	var query SearchQuery
	if err := handlers.DecodeQuery(r.URL.Query(), &query); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	if details, err := handlers.Validate(&query); err != nil {
		handlers.RespondValidationError(w, msgInvalidQuery, details)
		return
	}

	result, err := h.service.Search(r.Context(), ownerID, query.Name)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /owners/{id}/appointments/search - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
		default:
			h.logger.Error("GET /owners/{id}/appointments/search - Failed: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /owners/{id}/appointments/search - Found %d appointments: owner_id=%d", len(result.Appointments), ownerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
