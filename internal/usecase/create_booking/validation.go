package create_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// mapCandidateError переводит ошибки проверки времени в ошибки usecase
func mapCandidateError(err error) error {
	switch {
	case errors.Is(err, availability.ErrPastDate):
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	case errors.Is(err, availability.ErrDayClosed):
		return ErrDayClosed
	case errors.Is(err, availability.ErrOutsideHours):
		return fmt.Errorf("%w: %v", ErrOutsideHours, err)
	case errors.Is(err, availability.ErrLeadTime):
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, domain.LeadTimeMinutes)
	case errors.Is(err, availability.ErrOverlap):
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
