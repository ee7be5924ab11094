// Package wizard drives one booking attempt: service, then date and slot,
// then client identity, then submit. The same machine serves the operator's
// manual booking form and the client's public booking page.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	DefaultSubmitTimeout = 10 * time.Second
	DefaultIdentityLabel = "clientName"
)

// Options параметры мастера записи
type Options struct {
	IdentityLabel string        // название обязательного поля идентификации клиента
	SubmitTimeout time.Duration // ограничение на один вызов записи
}

func (o Options) withDefaults() Options {
	if o.IdentityLabel == "" {
		o.IdentityLabel = DefaultIdentityLabel
	}
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = DefaultSubmitTimeout
	}
	return o
}

// Wizard конечный автомат записи поверх сериализуемого domain.BookingSession.
// Одновременно может выполняться только один внешний вызов: пока он идет,
// остальные действия возвращают ErrBusy.
type Wizard struct {
	mu     sync.Mutex
	state  domain.BookingSession
	opts   Options
	loader SnapshotLoader
	booker Booker
	clock  TimeProvider
	logger Logger
}

// NewSession создает начальное состояние мастера
func NewSession(id string, ownerID int64, audience domain.Audience, now time.Time) domain.BookingSession {
	return domain.BookingSession{
		ID:        id,
		OwnerID:   ownerID,
		Audience:  audience,
		Step:      domain.StepChoosingService,
		Intent:    domain.IntentCreate,
		Slots:     []types.TimeString{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// New восстанавливает мастер из сохраненного состояния
func New(
	session domain.BookingSession,
	opts Options,
	loader SnapshotLoader,
	booker Booker,
	clock TimeProvider,
	logger Logger,
) *Wizard {
	return &Wizard{
		state:  session,
		opts:   opts.withDefaults(),
		loader: loader,
		booker: booker,
		clock:  clock,
		logger: logger,
	}
}

// Session возвращает копию текущего состояния
func (w *Wizard) Session() domain.BookingSession {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.state
	s.Slots = append([]types.TimeString(nil), w.state.Slots...)
	s.Found = append([]domain.Appointment(nil), w.state.Found...)
	if w.state.Snapshot != nil {
		snap := *w.state.Snapshot
		snap.Appointments = append([]domain.Appointment(nil), w.state.Snapshot.Appointments...)
		s.Snapshot = &snap
	}
	return s
}

// Load загружает (или перезагружает) снимок данных мастера и пересчитывает слоты
func (w *Wizard) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.state.Pending {
		w.mu.Unlock()
		return ErrBusy
	}
	w.state.Pending = true
	ownerID := w.state.OwnerID
	w.mu.Unlock()

	snapshot, err := w.loader.LoadSnapshot(ctx, ownerID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Pending = false

	if err != nil {
		w.logger.Error("Wizard: session=%s failed to load snapshot for owner=%d: %v", w.state.ID, ownerID, err)
		w.state.LastError = msgLoadFailed
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	w.state.Snapshot = snapshot
	w.state.LastError = ""
	w.recompute()

	if w.state.Step == domain.StepChoosingDateAndSlot && !w.slotOffered(w.state.SelectedSlot) {
		w.state.SelectedSlot = ""
	}

	w.logger.Info("Wizard: session=%s loaded snapshot for owner=%d (services=%d, appointments=%d)",
		w.state.ID, ownerID, len(snapshot.Services), len(snapshot.Appointments))
	return nil
}

// SelectService привязывает услугу и переходит к выбору даты и времени
func (w *Wizard) SelectService(serviceID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepChoosingService); err != nil {
		return err
	}
	if w.state.Snapshot == nil {
		return ErrNotLoaded
	}
	if len(w.state.Snapshot.Services) == 0 {
		return ErrNoServices
	}
	if _, ok := w.state.Snapshot.FindService(serviceID); !ok {
		return fmt.Errorf("%w: id=%d", ErrServiceNotFound, serviceID)
	}

	w.state.ServiceID = serviceID
	w.state.SelectedSlot = ""
	if w.state.Date.IsZero() || w.state.Date.Before(w.today()) {
		w.state.Date = w.today()
	}
	w.state.Step = domain.StepChoosingDateAndSlot
	w.state.LastError = ""
	w.recompute()

	return nil
}

// SelectDate меняет дату; выбранный ранее слот сбрасывается
func (w *Wizard) SelectDate(date time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepChoosingDateAndSlot); err != nil {
		return err
	}

	today := w.today()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, today.Location())
	if day.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, day.Format(domain.DateFormat))
	}

	w.state.Date = day
	w.state.SelectedSlot = ""
	w.recompute()

	return nil
}

// SelectSlot выбирает одно из предложенных времен и переходит к подтверждению
func (w *Wizard) SelectSlot(slot types.TimeString) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepChoosingDateAndSlot); err != nil {
		return err
	}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !w.slotOffered(slot) {
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, slot)
	}

	w.state.SelectedSlot = slot
	w.state.Step = domain.StepConfirmingIdentity
	w.state.LastError = ""

	return nil
}

// SetClientName задает имя клиента
func (w *Wizard) SetClientName(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(domain.StepChoosingDateAndSlot, domain.StepConfirmingIdentity); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if len([]rune(name)) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: %s is too long", ErrInvalidInput, w.opts.IdentityLabel)
	}

	w.state.ClientName = name
	return nil
}

// Back возвращает на предыдущий шаг
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Pending {
		return ErrBusy
	}

	switch w.state.Step {
	case domain.StepConfirmingIdentity:
		w.state.Step = domain.StepChoosingDateAndSlot
		w.recompute()
		if !w.slotOffered(w.state.SelectedSlot) {
			w.state.SelectedSlot = ""
		}

	case domain.StepChoosingDateAndSlot:
		w.state.ServiceID = 0
		w.state.SelectedSlot = ""
		w.state.Slots = []types.TimeString{}
		if w.state.Intent == domain.IntentReschedule {
			w.state.Intent = domain.IntentCreate
			w.state.RescheduleID = 0
			w.state.ClientName = ""
			w.state.Step = domain.StepManagingExisting
		} else {
			w.state.Step = domain.StepChoosingService
		}

	default:
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, w.state.Step)
	}

	w.state.LastError = ""
	return nil
}

// CanSubmit сообщает, можно ли сейчас отправить запись
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.canSubmit()
}

func (w *Wizard) canSubmit() bool {
	return w.state.Step == domain.StepConfirmingIdentity &&
		!w.state.Pending &&
		strings.TrimSpace(w.state.ClientName) != "" &&
		!w.state.SelectedSlot.IsZero() &&
		w.state.ServiceID != 0
}

// Submit создает запись или переносит существующую.
// Успех переводит мастер в Success. Если слот заняли, мастер возвращается
// к выбору времени с обновленными данными и ErrSlotTaken. Любая другая
// ошибка оставляет мастер на подтверждении с сохраненным выбором.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.expect(domain.StepConfirmingIdentity); err != nil {
		w.mu.Unlock()
		return err
	}
	if strings.TrimSpace(w.state.ClientName) == "" {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrIdentityRequired, w.opts.IdentityLabel)
	}
	if w.state.Snapshot == nil {
		w.mu.Unlock()
		return ErrNotLoaded
	}
	service, ok := w.state.Snapshot.FindService(w.state.ServiceID)
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: id=%d", ErrServiceNotFound, w.state.ServiceID)
	}

	var (
		sessionID = w.state.ID
		ownerID   = w.state.OwnerID
		intent    = w.state.Intent
		start     = w.state.SelectedSlot
		end       = types.MinutesToTime(start.Minutes() + service.DurationMinutes)
		date      = w.state.Date
		name      = w.state.ClientName
		serviceID = service.ID
		apptID    = w.state.RescheduleID
	)

	w.state.Pending = true
	w.state.LastError = ""
	w.mu.Unlock()

	w.logger.Info("Wizard: session=%s submitting %s owner=%d service=%d date=%s %s-%s",
		sessionID, intent, ownerID, serviceID, date.Format(domain.DateFormat), start, end)

	callCtx, cancel := context.WithTimeout(ctx, w.opts.SubmitTimeout)
	defer cancel()

	var (
		appt *domain.Appointment
		err  error
	)
	if intent == domain.IntentReschedule {
		appt, err = w.booker.RescheduleAppointment(callCtx, RescheduleRequest{
			OwnerID:       ownerID,
			AppointmentID: apptID,
			ServiceID:     serviceID,
			Date:          date,
			StartTime:     start,
			EndTime:       end,
		})
	} else {
		appt, err = w.booker.CreateAppointment(callCtx, CreateRequest{
			OwnerID:    ownerID,
			ServiceID:  serviceID,
			ClientName: name,
			Date:       date,
			StartTime:  start,
			EndTime:    end,
		})
	}

	if errors.Is(err, ErrSlotTaken) {
		w.logger.Warn("Wizard: session=%s slot %s on %s was just taken", sessionID, start, date.Format(domain.DateFormat))
		return w.recoverFromConflict(ctx)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Pending = false

	switch {
	case err == nil:
		w.state.Result = appt
		w.state.Step = domain.StepSuccess
		if appt != nil {
			w.state.Snapshot.UpsertAppointment(*appt)
		}
		w.logger.Info("Wizard: session=%s booking done", sessionID)
		return nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		w.state.LastError = msgSubmitTimeout
		w.logger.Warn("Wizard: session=%s submit timed out after %s", sessionID, w.opts.SubmitTimeout)
		return fmt.Errorf("%w: %v", ErrSubmitTimeout, err)

	default:
		w.state.LastError = msgSubmitFailed
		w.logger.Error("Wizard: session=%s submit failed: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
}

// recoverFromConflict перечитывает данные и возвращает мастер к выбору времени.
// Вызывается с Pending == true и без блокировки.
func (w *Wizard) recoverFromConflict(ctx context.Context) error {
	snapshot, loadErr := w.loader.LoadSnapshot(ctx, w.ownerID())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Pending = false

	if loadErr != nil {
		w.logger.Warn("Wizard: session=%s failed to reload snapshot after conflict: %v", w.state.ID, loadErr)
	} else {
		w.state.Snapshot = snapshot
	}

	w.state.SelectedSlot = ""
	w.state.Step = domain.StepChoosingDateAndSlot
	w.state.LastError = msgSlotTaken
	w.recompute()

	return ErrSlotTaken
}

// Reset начинает новую попытку записи с первого шага; снимок данных сохраняется
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Pending {
		return ErrBusy
	}

	fresh := NewSession(w.state.ID, w.state.OwnerID, w.state.Audience, w.state.CreatedAt)
	fresh.Snapshot = w.state.Snapshot
	fresh.UpdatedAt = w.clock.Now()
	w.state = fresh

	return nil
}

// expect проверяет, что мастер свободен и находится на одном из шагов
func (w *Wizard) expect(steps ...domain.WizardStep) error {
	if w.state.Pending {
		return ErrBusy
	}
	for _, step := range steps {
		if w.state.Step == step {
			return nil
		}
	}
	return fmt.Errorf("%w: current step is %s", ErrInvalidTransition, w.state.Step)
}

func (w *Wizard) ownerID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.OwnerID
}

// recompute пересчитывает слоты для выбранной услуги и даты
func (w *Wizard) recompute() {
	s := &w.state
	s.Slots = []types.TimeString{}

	if s.Snapshot == nil || s.ServiceID == 0 || s.Date.IsZero() {
		return
	}
	service, ok := s.Snapshot.FindService(s.ServiceID)
	if !ok {
		return
	}

	day := s.Snapshot.Hours.ForDate(s.Date)
	intervals := availability.BuildIntervals(s.Snapshot.Appointments, s.Date)
	s.Slots = availability.ComputeSlots(service.DurationMinutes, day, intervals, w.clock.Now(), s.Date)
}

func (w *Wizard) slotOffered(slot types.TimeString) bool {
	if slot.IsZero() {
		return false
	}
	for _, s := range w.state.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

func (w *Wizard) today() time.Time {
	now := w.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
