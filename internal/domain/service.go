package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable salon service
type Service struct {
	ID              int64           `json:"id"`
	OwnerID         int64           `json:"ownerId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// IsBookable returns true if the service has a positive duration and a non-negative price
func (s *Service) IsBookable() bool {
	return s.DurationMinutes > 0 && !s.Price.IsNegative()
}
