package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service сервис каталога услуг мастера
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{serviceRepo: serviceRepo, logger: logger}
}

// ListServices возвращает услуги, доступные для записи
func (s *Service) ListServices(ctx context.Context, ownerID int64) ([]domain.Service, error) {
	services, err := s.serviceRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListServices: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	bookable := services[:0]
	for _, svc := range services {
		if svc.IsBookable() {
			bookable = append(bookable, svc)
		}
	}
	return bookable, nil
}

// List возвращает услуги мастера в виде ответа API
func (s *Service) List(ctx context.Context, ownerID int64) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for owner=%d", ownerID)

	services, err := s.ListServices(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("List: successfully fetched %d services for owner=%d", len(services), ownerID)
	return models.FromDomainServiceList(services), nil
}
