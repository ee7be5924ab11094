package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UseCase use case для создания записи
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

// Execute выполняет use case создания записи.
// Проверка и вставка идут в сериализуемой транзакции с блокировкой записей на дату,
// а ограничение appointments_no_overlap в БД отклоняет пересечение при любой гонке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: owner=%d, service=%d, date=%s, time=%s",
		req.OwnerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.OwnerID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found for owner=%d", req.ServiceID, req.OwnerID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	endMinutes := req.StartTime.Minutes() + service.DurationMinutes
	if endMinutes >= types.MinutesPerDay {
		uc.logger.Warn("CreateBooking: %s + %d min crosses midnight", req.StartTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: appointment must end before midnight", ErrOutsideHours)
	}
	endTime := types.MinutesToTime(endMinutes)

	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем рабочие часы на дату
		hours, err := uc.hoursRepo.GetByOwner(txCtx, req.OwnerID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get business hours: %v", err)
			return fmt.Errorf("%w: failed to get business hours: %w", ErrInternal, err)
		}
		day := hours.WithDefaults().ForDate(req.Date)

		// 4.2. Получаем активные записи на дату с блокировкой (FOR UPDATE)
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
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 4.3. Проверяем время по тем же правилам, что и расчет слотов
		intervals := availability.BuildIntervals(appointments, req.Date)
		if err := availability.CheckCandidate(req.StartTime, service.DurationMinutes, day, intervals, now, req.Date); err != nil {
			uc.logger.Warn("CreateBooking: time check failed: %v", err)
			return mapCandidateError(err)
		}

		// 4.4. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			OwnerID:     req.OwnerID,
			ServiceID:   service.ID,
			ServiceName: service.Name,
			ClientName:  strings.TrimSpace(req.ClientName),
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     endTime,
			Status:      domain.StatusConfirmed,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) || appointmentRepo.IsSlotConflict(err) {
			uc.metrics.IncBookingConflict("create")
			uc.logger.Warn("CreateBooking: slot %s %s is taken: %v", req.Date.Format(domain.DateFormat), req.StartTime, err)
			if !errors.Is(err, ErrSlotTaken) {
				return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d", result.ID)

	// 5. Публикуем событие; запись уже сохранена, поэтому ошибка только логируется
	if err := uc.publisher.Publish(ctx, events.AppointmentCreated, *result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		OwnerID:         a.OwnerID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.DisplayServiceName(),
		ClientName:      a.ClientName,
		Date:            a.Date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes(),
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
