package create_booking_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
)

const (
	msgInvalidOwnerID = "некорректный ID мастера"
	msgUnauthorized   = "требуется авторизация"
	msgForbidden      = "доступ запрещен"
	msgLoadFailed     = "не удалось загрузить расписание, попробуйте позже"
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

// HandlePublic POST /api/v1/owners/{ownerId}/booking-sessions
// Мастер записи для клиента по публичной ссылке
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.start(w, r, userID, &models.StartSessionRequest{OwnerID: ownerID, Audience: domain.AudiencePublic})
}

// HandleOperator POST /api/v1/booking-sessions
// Ручная запись клиента самим мастером
func (h *Handler) HandleOperator(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	h.start(w, r, userID, &models.StartSessionRequest{OwnerID: userID, Audience: domain.AudienceOperator})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request, userID int64, req *models.StartSessionRequest) {
	result, err := h.service.Start(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, sessions.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidOwnerID)

		case errors.Is(err, wizard.ErrLoadFailed):
			h.logger.Error("POST booking-sessions - Failed to load data: owner_id=%d, error=%v", req.OwnerID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgLoadFailed)

		default:
			h.logger.Error("POST booking-sessions - Failed to start session: owner_id=%d, error=%v", req.OwnerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST booking-sessions - Session started: session_id=%s, owner_id=%d, audience=%s",
		result.ID, req.OwnerID, req.Audience)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
