package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
)

// Gateway связывает мастер записи с сервисами и usecase'ами:
// реализует wizard.SnapshotLoader и wizard.Booker
type Gateway struct {
	catalog      CatalogService
	hours        HoursService
	appointments AppointmentRepository
	manage       AppointmentsService
	create       CreateBookingUseCase
	reschedule   RescheduleBookingUseCase
	clock        TimeProvider
}

// NewGateway создает адаптер для мастера записи
func NewGateway(
	catalog CatalogService,
	hours HoursService,
	appointments AppointmentRepository,
	manage AppointmentsService,
	create CreateBookingUseCase,
	reschedule RescheduleBookingUseCase,
	clock TimeProvider,
) *Gateway {
	return &Gateway{
		catalog:      catalog,
		hours:        hours,
		appointments: appointments,
		manage:       manage,
		create:       create,
		reschedule:   reschedule,
		clock:        clock,
	}
}

// LoadSnapshot собирает услуги, часы работы и активные записи начиная с сегодня
func (g *Gateway) LoadSnapshot(ctx context.Context, ownerID int64) (*domain.OwnerSnapshot, error) {
	services, err := g.catalog.ListServices(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	hours, err := g.hours.GetWeeklyHours(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}

	now := g.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	appointments, err := g.appointments.GetWithFilter(ctx, domain.AppointmentsFilter{
		OwnerID:  ownerID,
		FromDate: &today,
	})
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	return &domain.OwnerSnapshot{
		OwnerID:      ownerID,
		Services:     services,
		Hours:        hours,
		Appointments: appointments,
		LoadedAt:     now,
	}, nil
}

// CreateAppointment создает запись через usecase create_booking
func (g *Gateway) CreateAppointment(ctx context.Context, req wizard.CreateRequest) (*domain.Appointment, error) {
	resp, err := g.create.Execute(ctx, &create_booking.Request{
		OwnerID:    req.OwnerID,
		ServiceID:  req.ServiceID,
		ClientName: req.ClientName,
		Date:       req.Date,
		StartTime:  req.StartTime,
	})
	if err != nil {
		if slotGone(err) {
			return nil, fmt.Errorf("%w: %v", wizard.ErrSlotTaken, err)
		}
		return nil, err
	}

	return &domain.Appointment{
		ID:          resp.ID,
		OwnerID:     resp.OwnerID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		ClientName:  resp.ClientName,
		Date:        resp.Date,
		StartTime:   resp.StartTime,
		EndTime:     resp.EndTime,
		Status:      domain.AppointmentStatus(resp.Status),
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}, nil
}

// RescheduleAppointment переносит запись через usecase reschedule_booking
func (g *Gateway) RescheduleAppointment(ctx context.Context, req wizard.RescheduleRequest) (*domain.Appointment, error) {
	resp, err := g.reschedule.Execute(ctx, &reschedule_booking.Request{
		OwnerID:       req.OwnerID,
		AppointmentID: req.AppointmentID,
		Date:          req.Date,
		StartTime:     req.StartTime,
	})
	if err != nil {
		if slotGone(err) {
			return nil, fmt.Errorf("%w: %v", wizard.ErrSlotTaken, err)
		}
		return nil, err
	}

	return &domain.Appointment{
		ID:          resp.ID,
		OwnerID:     resp.OwnerID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		ClientName:  resp.ClientName,
		Date:        resp.Date,
		StartTime:   resp.StartTime,
		EndTime:     resp.EndTime,
		Status:      domain.AppointmentStatus(resp.Status),
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}, nil
}

// CancelAppointment отменяет запись
func (g *Gateway) CancelAppointment(ctx context.Context, ownerID, appointmentID int64) error {
	return g.manage.Cancel(ctx, ownerID, appointmentID)
}

// SearchAppointments ищет записи по имени клиента
func (g *Gateway) SearchAppointments(ctx context.Context, ownerID int64, clientName string) ([]domain.Appointment, error) {
	return g.manage.FindByClientName(ctx, ownerID, clientName)
}

// slotGone сообщает, что выбранное время больше недоступно: его заняли,
// мастер изменил часы работы или время уже прошло. Мастер в этом случае
// перечитывает данные и предлагает выбрать другое время.
func slotGone(err error) bool {
	return errors.Is(err, create_booking.ErrSlotTaken) ||
		errors.Is(err, create_booking.ErrTooLateToBook) ||
		errors.Is(err, create_booking.ErrOutsideHours) ||
		errors.Is(err, create_booking.ErrDayClosed) ||
		errors.Is(err, reschedule_booking.ErrSlotTaken) ||
		errors.Is(err, reschedule_booking.ErrTooLateToBook) ||
		errors.Is(err, reschedule_booking.ErrOutsideHours) ||
		errors.Is(err, reschedule_booking.ErrDayClosed)
}
