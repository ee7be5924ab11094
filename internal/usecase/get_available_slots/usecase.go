package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	hoursRepo       HoursRepository
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	hoursRepo HoursRepository,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		hoursRepo:       hoursRepo,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: owner=%d, service=%d, date=%s",
		req.OwnerID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if availability.IsDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.OwnerID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found for owner=%d", req.ServiceID, req.OwnerID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем рабочие часы (несохраненные дни берутся по умолчанию)
	hours, err := uc.hoursRepo.GetByOwner(ctx, req.OwnerID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	day := hours.WithDefaults().ForDate(req.Date)

	response := &Response{
		Date:            req.Date,
		ServiceID:       service.ID,
		DurationMinutes: service.DurationMinutes,
		Day:             day,
	}

	// 5. Выходной день - слотов нет, записи можно не читать
	if !day.Enabled {
		uc.logger.Info("GetAvailableSlots: owner=%d does not work on %s", req.OwnerID, req.Date.Weekday())
		response.Slots = availability.ComputeSlots(service.DurationMinutes, day, nil, now, req.Date)
		return response, nil
	}

	// 6. Получаем активные записи на дату
	date := req.Date
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		OwnerID:         req.OwnerID,
		Date:            &date,
		IncludeInactive: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Считаем слоты
	intervals := availability.BuildIntervals(appointments, req.Date)
	response.Slots = availability.ComputeSlots(service.DurationMinutes, day, intervals, now, req.Date)

	uc.metrics.ObserveSlotsComputed(len(response.Slots))
	uc.logger.Info("GetAvailableSlots: found %d available slots (busy intervals: %d)", len(response.Slots), len(intervals))

	return response, nil
}
