package hours

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/hours/models"
)

// Service сервис для работы с часами работы мастера
type Service struct {
	hoursRepo HoursRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса часов работы
func NewService(hoursRepo HoursRepository, logger Logger) *Service {
	return &Service{
		hoursRepo: hoursRepo,
		logger:    logger,
	}
}

// GetWeeklyHours возвращает полную неделю: ненастроенные дни заполняются значениями по умолчанию
func (s *Service) GetWeeklyHours(ctx context.Context, ownerID int64) (domain.WeeklyHours, error) {
	hours, err := s.hoursRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("GetWeeklyHours: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetWeeklyHours - repository error: %v", ErrInternal, err)
	}
	return hours.WithDefaults(), nil
}

// Get возвращает часы работы мастера
// Публичный метод - нужен странице записи
func (s *Service) Get(ctx context.Context, ownerID int64) (*models.HoursResponse, error) {
	s.logger.Info("Get: fetching business hours for owner=%d", ownerID)

	hours, err := s.GetWeeklyHours(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainHours(ownerID, hours), nil
}

// Update сохраняет часы работы для переданных дней недели
// Доступно только самому мастеру
func (s *Service) Update(ctx context.Context, ownerID int64, req *models.UpdateHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("Update: updating %d days of business hours for owner=%d", len(req.Days), ownerID)

	// 1. Конвертируем и проверяем дни недели
	hours, err := req.ToDomainHours()
	if err != nil {
		s.logger.Warn("Update: invalid request for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем окна рабочих дней
	for day, schedule := range hours {
		if err := schedule.Validate(); err != nil {
			if errors.Is(err, domain.ErrInvalidDaySchedule) {
				s.logger.Warn("Update: invalid schedule for %s, owner=%d: %v", domain.WeekdayKey(day), ownerID, err)
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, domain.WeekdayKey(day), err)
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	// 3. Сохраняем
	if err := s.hoursRepo.Upsert(ctx, ownerID, hours); err != nil {
		s.logger.Error("Update: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 4. Возвращаем неделю целиком
	resp, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated business hours for owner=%d", ownerID)
	return resp, nil
}
