package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис для просмотра, поиска и отмены записей
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		txManager:       txManager,
		logger:          logger,
	}
}

// List возвращает записи мастера, сначала новые.
// Отмененные скрыты, если не запрошены явно.
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for owner=%d, includeCancelled=%t", req.OwnerID, req.IncludeCancelled)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	sortNewestFirst(appointments)

	s.logger.Info("List: successfully fetched %d appointments for owner=%d", len(appointments), req.OwnerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// FindByClientName ищет активные записи по подстроке имени клиента без учета регистра.
// Пустой запрос возвращает пустой список.
func (s *Service) FindByClientName(ctx context.Context, ownerID int64, query string) ([]domain.Appointment, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Appointment{}, nil
	}
	if len([]rune(query)) > domain.MaxSearchQueryLength {
		return nil, fmt.Errorf("%w: search query is too long", ErrInvalidInput)
	}

	s.logger.Info("FindByClientName: searching appointments for owner=%d, query=%q", ownerID, query)

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		OwnerID:         ownerID,
		ClientName:      &query,
		IncludeInactive: false,
	})
	if err != nil {
		s.logger.Error("FindByClientName: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: FindByClientName - repository error: %v", ErrInternal, err)
	}

	sortNewestFirst(appointments)
	return appointments, nil
}

// Search то же, что FindByClientName, в виде ответа API
func (s *Service) Search(ctx context.Context, ownerID int64, query string) (*models.AppointmentListResponse, error) {
	appointments, err := s.FindByClientName(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Search: found %d appointments for owner=%d", len(appointments), ownerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись мастера. Отмена окончательна: запись больше не занимает время.
func (s *Service) Cancel(ctx context.Context, ownerID, appointmentID int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d for owner=%d", appointmentID, ownerID)

	var cancelled domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, ownerID, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Cancel: appointment id=%d not found for owner=%d", appointmentID, ownerID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, domain.StatusCancelled); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: failed to update status for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		cancelled = *appt
		cancelled.Status = domain.StatusCancelled
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.AppointmentCancelled, cancelled); err != nil {
		s.logger.Warn("Cancel: failed to publish event for appointment id=%d: %v", appointmentID, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// sortNewestFirst сортирует по дате и времени начала по убыванию
func sortNewestFirst(appointments []domain.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.StartTime.Minutes() > b.StartTime.Minutes()
	})
}
