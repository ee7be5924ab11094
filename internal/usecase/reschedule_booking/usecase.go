package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	hoursRepo       HoursRepository
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	hoursRepo HoursRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		hoursRepo:       hoursRepo,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute переносит запись: дата и время перезаписываются, статус становится rescheduled.
// Собственный интервал переносимой записи не мешает новому времени.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: owner=%d, appointment=%d, date=%s, time=%s",
		req.OwnerID, req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем запись с блокировкой
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.OwnerID, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleBooking: appointment id=%d not found for owner=%d", req.AppointmentID, req.OwnerID)
				return ErrAppointmentNotFound
			}
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			uc.logger.Error("RescheduleBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: appointment id=%d has status=%s", appt.ID, appt.Status)
			return ErrAppointmentCancelled
		}

		// 3.2. Длительность берется из услуги записи
		if appt.ServiceID == 0 {
			uc.logger.Warn("RescheduleBooking: service of appointment id=%d was removed", appt.ID)
			return ErrServiceNotFound
		}
		service, err := uc.serviceRepo.GetByID(txCtx, req.OwnerID, appt.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("RescheduleBooking: service id=%d not found", appt.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get service id=%d: %v", appt.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}

		endMinutes := req.StartTime.Minutes() + service.DurationMinutes
		if endMinutes >= types.MinutesPerDay {
			return fmt.Errorf("%w: appointment must end before midnight", ErrOutsideHours)
		}

		// 3.3. Рабочие часы на новую дату
		hours, err := uc.hoursRepo.GetByOwner(txCtx, req.OwnerID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get business hours: %v", err)
			return fmt.Errorf("%w: failed to get business hours: %w", ErrInternal, err)
		}
		day := hours.WithDefaults().ForDate(req.Date)

		// 3.4. Активные записи на новую дату с блокировкой (FOR UPDATE)
		date := req.Date
		appointments, err := uc.appointmentRepo.GetWithFilter(txCtx, domain.AppointmentsFilter{
			OwnerID:         req.OwnerID,
			Date:            &date,
			IncludeInactive: false,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			uc.logger.Error("RescheduleBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 3.5. Проверяем новое время. Переносимая запись тоже занимает свой интервал
		intervals := availability.BuildIntervals(appointments, req.Date)
		if err := availability.CheckCandidate(req.StartTime, service.DurationMinutes, day, intervals, now, req.Date); err != nil {
			uc.logger.Warn("RescheduleBooking: time check failed: %v", err)
			return mapCandidateError(err)
		}

		// 3.6. Перезаписываем дату и время
		updated, err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.Date, req.StartTime,
			types.MinutesToTime(endMinutes), domain.StatusRescheduled)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			uc.logger.Error("RescheduleBooking: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) || appointmentRepo.IsSlotConflict(err) {
			uc.metrics.IncBookingConflict("reschedule")
			uc.logger.Warn("RescheduleBooking: slot %s %s is taken: %v", req.Date.Format(domain.DateFormat), req.StartTime, err)
			if !errors.Is(err, ErrSlotTaken) {
				return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
		}
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: appointment id=%d moved to %s %s-%s",
		result.ID, result.Date.Format(domain.DateFormat), result.StartTime, result.EndTime)

	// 4. Публикуем событие
	if err := uc.publisher.Publish(ctx, events.AppointmentRescheduled, *result); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:              result.ID,
		OwnerID:         result.OwnerID,
		ServiceID:       result.ServiceID,
		ServiceName:     result.DisplayServiceName(),
		ClientName:      result.ClientName,
		Date:            result.Date,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes(),
		Status:          string(result.Status),
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
