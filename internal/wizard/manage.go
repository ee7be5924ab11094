package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Управление существующими записями доступно только на публичной странице

// EnterManage открывает поиск своих записей
func (w *Wizard) EnterManage() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Audience != domain.AudiencePublic {
		return ErrNotAllowed
	}
	if err := w.expect(domain.StepChoosingService); err != nil {
		return err
	}

	w.state.Step = domain.StepManagingExisting
	w.state.SearchQuery = ""
	w.state.Found = nil
	w.state.LastError = ""
	return nil
}

// LeaveManage возвращает к выбору услуги
func (w *Wizard) LeaveManage() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepManagingExisting); err != nil {
		return err
	}

	w.state.Step = domain.StepChoosingService
	w.state.SearchQuery = ""
	w.state.Found = nil
	w.state.LastError = ""
	return nil
}

// Search ищет активные записи по имени клиента. Пустой запрос ничего не делает.
func (w *Wizard) Search(ctx context.Context, query string) error {
	w.mu.Lock()
	if err := w.expect(domain.StepManagingExisting); err != nil {
		w.mu.Unlock()
		return err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		w.mu.Unlock()
		return nil
	}
	if len([]rune(query)) > domain.MaxSearchQueryLength {
		w.mu.Unlock()
		return fmt.Errorf("%w: search query is too long", ErrInvalidInput)
	}

	w.state.Pending = true
	w.state.SearchQuery = query
	ownerID := w.state.OwnerID
	sessionID := w.state.ID
	w.mu.Unlock()

	found, err := w.booker.SearchAppointments(ctx, ownerID, query)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Pending = false

	if err != nil {
		w.state.LastError = msgSearchFailed
		w.logger.Error("Wizard: session=%s search failed: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	active := make([]domain.Appointment, 0, len(found))
	for _, appt := range found {
		if appt.IsActive() {
			active = append(active, appt)
		}
	}

	w.state.Found = active
	w.state.LastError = ""
	w.logger.Info("Wizard: session=%s search found %d appointments", sessionID, len(active))
	return nil
}

// Cancel отменяет одну из найденных записей
func (w *Wizard) Cancel(ctx context.Context, appointmentID int64) error {
	w.mu.Lock()
	if err := w.expect(domain.StepManagingExisting); err != nil {
		w.mu.Unlock()
		return err
	}
	if _, ok := w.found(appointmentID); !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
	}

	w.state.Pending = true
	ownerID := w.state.OwnerID
	sessionID := w.state.ID
	w.mu.Unlock()

	err := w.booker.CancelAppointment(ctx, ownerID, appointmentID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Pending = false

	if err != nil {
		w.state.LastError = msgCancelFailed
		w.logger.Error("Wizard: session=%s cancel of appointment=%d failed: %v", sessionID, appointmentID, err)
		return fmt.Errorf("%w: %v", ErrCancelFailed, err)
	}

	remaining := make([]domain.Appointment, 0, len(w.state.Found))
	for _, appt := range w.state.Found {
		if appt.ID != appointmentID {
			remaining = append(remaining, appt)
		}
	}
	w.state.Found = remaining

	if w.state.Snapshot != nil {
		for i := range w.state.Snapshot.Appointments {
			if w.state.Snapshot.Appointments[i].ID == appointmentID {
				w.state.Snapshot.Appointments[i].Status = domain.StatusCancelled
			}
		}
	}

	w.state.LastError = ""
	w.logger.Info("Wizard: session=%s cancelled appointment=%d", sessionID, appointmentID)
	return nil
}

// StartReschedule входит в мастер на шаге выбора даты для переноса найденной записи
func (w *Wizard) StartReschedule(appointmentID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepManagingExisting); err != nil {
		return err
	}
	appt, ok := w.found(appointmentID)
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
	}
	if w.state.Snapshot == nil {
		return ErrNotLoaded
	}
	if _, ok := w.state.Snapshot.FindService(appt.ServiceID); !ok {
		return fmt.Errorf("%w: id=%d", ErrServiceNotFound, appt.ServiceID)
	}

	w.state.Intent = domain.IntentReschedule
	w.state.RescheduleID = appt.ID
	w.state.ServiceID = appt.ServiceID
	w.state.ClientName = appt.ClientName
	w.state.Date = w.today()
	w.state.SelectedSlot = ""
	w.state.Slots = []types.TimeString{}
	w.state.Step = domain.StepChoosingDateAndSlot
	w.state.LastError = ""
	w.recompute()

	return nil
}

func (w *Wizard) found(appointmentID int64) (domain.Appointment, bool) {
	for _, appt := range w.state.Found {
		if appt.ID == appointmentID {
			return appt, true
		}
	}
	return domain.Appointment{}, false
}
