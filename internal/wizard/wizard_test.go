package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const ownerID int64 = 77

var (
	// Понедельник 08:00
	now      = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	today    = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeLoader struct {
	mu        sync.Mutex
	snapshots []*domain.OwnerSnapshot
	calls     int
	err       error
}

func (f *fakeLoader) LoadSnapshot(_ context.Context, _ int64) (*domain.OwnerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.snapshots) {
		idx = len(f.snapshots) - 1
	}
	snap := *f.snapshots[idx]
	snap.Appointments = append([]domain.Appointment(nil), f.snapshots[idx].Appointments...)
	return &snap, nil
}

type fakeBooker struct {
	mu           sync.Mutex
	createFn     func(ctx context.Context, req CreateRequest) (*domain.Appointment, error)
	rescheduleFn func(ctx context.Context, req RescheduleRequest) (*domain.Appointment, error)
	cancelFn     func(ctx context.Context, ownerID, id int64) error
	searchFn     func(ctx context.Context, ownerID int64, name string) ([]domain.Appointment, error)

	creates     []CreateRequest
	reschedules []RescheduleRequest
	searches    []string
}

func (f *fakeBooker) CreateAppointment(ctx context.Context, req CreateRequest) (*domain.Appointment, error) {
	f.mu.Lock()
	f.creates = append(f.creates, req)
	fn := f.createFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &domain.Appointment{
		ID: 100, OwnerID: req.OwnerID, ServiceID: req.ServiceID, ClientName: req.ClientName,
		Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime, Status: domain.StatusConfirmed,
	}, nil
}

func (f *fakeBooker) RescheduleAppointment(ctx context.Context, req RescheduleRequest) (*domain.Appointment, error) {
	f.mu.Lock()
	f.reschedules = append(f.reschedules, req)
	fn := f.rescheduleFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &domain.Appointment{
		ID: req.AppointmentID, OwnerID: req.OwnerID, ServiceID: req.ServiceID,
		Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime, Status: domain.StatusRescheduled,
	}, nil
}

func (f *fakeBooker) CancelAppointment(ctx context.Context, ownerID, id int64) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, ownerID, id)
	}
	return nil
}

func (f *fakeBooker) SearchAppointments(ctx context.Context, ownerID int64, name string) ([]domain.Appointment, error) {
	f.mu.Lock()
	f.searches = append(f.searches, name)
	f.mu.Unlock()

	if f.searchFn != nil {
		return f.searchFn(ctx, ownerID, name)
	}
	return nil, nil
}

func baseSnapshot() *domain.OwnerSnapshot {
	return &domain.OwnerSnapshot{
		OwnerID: ownerID,
		Services: []domain.Service{
			{ID: 1, OwnerID: ownerID, Name: "Маникюр", DurationMinutes: 60, Price: decimal.NewFromInt(1500)},
			{ID: 2, OwnerID: ownerID, Name: "Педикюр", DurationMinutes: 90, Price: decimal.NewFromInt(2500)},
		},
		Hours: domain.DefaultWeeklyHours(),
		Appointments: []domain.Appointment{
			{ID: 5, OwnerID: ownerID, ServiceID: 1, ServiceName: "Маникюр", ClientName: "Ana Souza",
				Date: tomorrow, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		},
		LoadedAt: now,
	}
}

func newWizard(t *testing.T, audience domain.Audience, loader *fakeLoader, booker *fakeBooker, opts Options) *Wizard {
	t.Helper()
	w := New(NewSession("s-1", ownerID, audience, now), opts, loader, booker, fixedClock{t: now}, logger.NewNop())
	require.NoError(t, w.Load(context.Background()))
	return w
}

func loaderWith(snaps ...*domain.OwnerSnapshot) *fakeLoader {
	if len(snaps) == 0 {
		snaps = []*domain.OwnerSnapshot{baseSnapshot()}
	}
	return &fakeLoader{snapshots: snaps}
}

func TestWizard_CreateHappyPath(t *testing.T) {
	booker := &fakeBooker{}
	w := newWizard(t, domain.AudienceOperator, loaderWith(), booker, Options{})

	require.NoError(t, w.SelectService(1))
	s := w.Session()
	assert.Equal(t, domain.StepChoosingDateAndSlot, s.Step)
	assert.Equal(t, today, s.Date)
	require.NotEmpty(t, s.Slots)
	assert.Equal(t, types.TimeString("09:00"), s.Slots[0])

	require.NoError(t, w.SelectDate(tomorrow))
	s = w.Session()
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "11:30"}, s.Slots[:3])

	require.NoError(t, w.SelectSlot("09:00"))
	assert.False(t, w.CanSubmit(), "name is required")

	require.NoError(t, w.SetClientName("  Maria  "))
	assert.True(t, w.CanSubmit())

	require.NoError(t, w.Submit(context.Background()))

	s = w.Session()
	assert.Equal(t, domain.StepSuccess, s.Step)
	require.NotNil(t, s.Result)
	assert.Equal(t, int64(100), s.Result.ID)

	require.Len(t, booker.creates, 1)
	req := booker.creates[0]
	assert.Equal(t, CreateRequest{
		OwnerID: ownerID, ServiceID: 1, ClientName: "Maria",
		Date: tomorrow, StartTime: "09:00", EndTime: "10:00",
	}, req)
}

func TestWizard_SelectServiceErrors(t *testing.T) {
	empty := baseSnapshot()
	empty.Services = nil
	w := newWizard(t, domain.AudienceOperator, loaderWith(empty), &fakeBooker{}, Options{})

	assert.ErrorIs(t, w.SelectService(1), ErrNoServices)
	assert.Equal(t, domain.StepChoosingService, w.Session().Step)

	w = newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})
	assert.ErrorIs(t, w.SelectService(42), ErrServiceNotFound)

	notLoaded := New(NewSession("s-2", ownerID, domain.AudienceOperator, now), Options{}, loaderWith(), &fakeBooker{}, fixedClock{t: now}, logger.NewNop())
	assert.ErrorIs(t, notLoaded.SelectService(1), ErrNotLoaded)
}

func TestWizard_ChangingDateClearsSlot(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})

	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.Back())
	assert.Equal(t, types.TimeString("09:00"), w.Session().SelectedSlot)

	require.NoError(t, w.SelectDate(tomorrow.AddDate(0, 0, 1)))
	assert.True(t, w.Session().SelectedSlot.IsZero())
}

func TestWizard_SelectDateInPast(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})
	require.NoError(t, w.SelectService(1))

	assert.ErrorIs(t, w.SelectDate(today.AddDate(0, 0, -1)), ErrDateInPast)
}

func TestWizard_SelectSlotNotOffered(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectDate(tomorrow))

	assert.ErrorIs(t, w.SelectSlot("10:00"), ErrSlotUnavailable)
	assert.ErrorIs(t, w.SelectSlot("ten"), ErrInvalidInput)
	assert.Equal(t, domain.StepChoosingDateAndSlot, w.Session().Step)
}

func TestWizard_ClosedDayHasNoSlots(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})
	require.NoError(t, w.SelectService(1))

	// 2026-10-25 is a Sunday
	require.NoError(t, w.SelectDate(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, w.Session().Slots)
}

func TestWizard_SubmitRequiresName(t *testing.T) {
	booker := &fakeBooker{}
	w := newWizard(t, domain.AudienceOperator, loaderWith(), booker, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))

	err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrIdentityRequired)
	assert.Contains(t, err.Error(), DefaultIdentityLabel)
	assert.Empty(t, booker.creates)
}

func TestWizard_SubmitFailureIsRetryable(t *testing.T) {
	calls := 0
	booker := &fakeBooker{}
	booker.createFn = func(_ context.Context, req CreateRequest) (*domain.Appointment, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &domain.Appointment{ID: 9, Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}, nil
	}
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.SetClientName("Maria"))

	err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitFailed)

	s := w.Session()
	assert.Equal(t, domain.StepConfirmingIdentity, s.Step)
	assert.Equal(t, msgSubmitFailed, s.LastError)
	assert.Equal(t, types.TimeString("09:00"), s.SelectedSlot)
	assert.Equal(t, "Maria", s.ClientName)
	assert.False(t, s.Pending)

	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, domain.StepSuccess, w.Session().Step)
	assert.Empty(t, w.Session().LastError)
}

func TestWizard_SlotTakenReturnsToSlotChoice(t *testing.T) {
	refreshed := baseSnapshot()
	refreshed.Appointments = append(refreshed.Appointments, domain.Appointment{
		ID: 6, OwnerID: ownerID, ServiceID: 1, ClientName: "Someone",
		Date: tomorrow, StartTime: "09:00", EndTime: "10:00", Status: domain.StatusConfirmed,
	})
	loader := loaderWith(baseSnapshot(), refreshed)

	booker := &fakeBooker{}
	booker.createFn = func(context.Context, CreateRequest) (*domain.Appointment, error) {
		return nil, fmt.Errorf("storage rejected: %w", ErrSlotTaken)
	}

	w := newWizard(t, domain.AudiencePublic, loader, booker, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectDate(tomorrow))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.SetClientName("Maria"))

	err := w.Submit(context.Background())

	require.ErrorIs(t, err, ErrSlotTaken)
	s := w.Session()
	assert.Equal(t, domain.StepChoosingDateAndSlot, s.Step)
	assert.True(t, s.SelectedSlot.IsZero())
	assert.Equal(t, msgSlotTaken, s.LastError)
	assert.Equal(t, "Maria", s.ClientName)
	assert.NotContains(t, s.Slots, types.TimeString("09:00"))
	assert.Equal(t, 2, loader.calls)
	assert.False(t, s.Pending)
}

func TestWizard_SubmitTimeout(t *testing.T) {
	booker := &fakeBooker{}
	booker.createFn = func(ctx context.Context, _ CreateRequest) (*domain.Appointment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	w := newWizard(t, domain.AudienceOperator, loaderWith(), booker, Options{SubmitTimeout: 20 * time.Millisecond})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.SetClientName("Maria"))

	err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitTimeout)
	s := w.Session()
	assert.Equal(t, domain.StepConfirmingIdentity, s.Step)
	assert.Equal(t, msgSubmitTimeout, s.LastError)
}

func TestWizard_BusyWhileSubmitPending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	booker := &fakeBooker{}
	booker.createFn = func(_ context.Context, req CreateRequest) (*domain.Appointment, error) {
		close(started)
		<-release
		return &domain.Appointment{ID: 1, Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}, nil
	}
	w := newWizard(t, domain.AudienceOperator, loaderWith(), booker, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.SetClientName("Maria"))

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()
	<-started

	assert.True(t, w.Session().Pending)
	assert.False(t, w.CanSubmit())
	assert.ErrorIs(t, w.Submit(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.Back(), ErrBusy)
	assert.ErrorIs(t, w.Reset(), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, booker.creates, 1)
	assert.Equal(t, domain.StepSuccess, w.Session().Step)
}

func TestWizard_ResetAfterSuccess(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})
	require.NoError(t, w.SelectService(1))
	require.NoError(t, w.SelectSlot("09:00"))
	require.NoError(t, w.SetClientName("Maria"))
	require.NoError(t, w.Submit(context.Background()))

	require.NoError(t, w.Reset())

	s := w.Session()
	assert.Equal(t, domain.StepChoosingService, s.Step)
	assert.Zero(t, s.ServiceID)
	assert.Empty(t, s.ClientName)
	assert.Nil(t, s.Result)
	require.NotNil(t, s.Snapshot)
	assert.Len(t, s.Snapshot.Appointments, 2, "the new booking stays in the snapshot")

	// the booked 09:00 today is no longer offered
	require.NoError(t, w.SelectService(1))
	assert.NotContains(t, w.Session().Slots, types.TimeString("09:00"))
}

func TestWizard_ManageIsPublicOnly(t *testing.T) {
	w := newWizard(t, domain.AudienceOperator, loaderWith(), &fakeBooker{}, Options{})

	assert.ErrorIs(t, w.EnterManage(), ErrNotAllowed)
}

func TestWizard_SearchAndCancel(t *testing.T) {
	booker := &fakeBooker{}
	booker.searchFn = func(_ context.Context, _ int64, name string) ([]domain.Appointment, error) {
		snap := baseSnapshot()
		cancelled := snap.Appointments[0]
		cancelled.ID = 4
		cancelled.Status = domain.StatusCancelled
		return []domain.Appointment{snap.Appointments[0], cancelled}, nil
	}
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})

	require.NoError(t, w.EnterManage())
	require.NoError(t, w.Search(context.Background(), "   "))
	assert.Empty(t, booker.searches, "empty query is a no-op")

	require.NoError(t, w.Search(context.Background(), "ana"))
	s := w.Session()
	require.Len(t, s.Found, 1)
	assert.Equal(t, int64(5), s.Found[0].ID)

	assert.ErrorIs(t, w.Cancel(context.Background(), 4), ErrAppointmentNotFound)

	require.NoError(t, w.Cancel(context.Background(), 5))
	s = w.Session()
	assert.Empty(t, s.Found)
	assert.Equal(t, domain.StatusCancelled, s.Snapshot.Appointments[0].Status)

	require.NoError(t, w.LeaveManage())
	assert.Equal(t, domain.StepChoosingService, w.Session().Step)
}

func TestWizard_CancelFailureKeepsResults(t *testing.T) {
	booker := &fakeBooker{}
	booker.searchFn = func(context.Context, int64, string) ([]domain.Appointment, error) {
		return baseSnapshot().Appointments, nil
	}
	booker.cancelFn = func(context.Context, int64, int64) error { return errors.New("db down") }
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})

	require.NoError(t, w.EnterManage())
	require.NoError(t, w.Search(context.Background(), "ana"))

	assert.ErrorIs(t, w.Cancel(context.Background(), 5), ErrCancelFailed)
	s := w.Session()
	assert.Len(t, s.Found, 1)
	assert.Equal(t, msgCancelFailed, s.LastError)
}

func TestWizard_Reschedule(t *testing.T) {
	booker := &fakeBooker{}
	booker.searchFn = func(context.Context, int64, string) ([]domain.Appointment, error) {
		return baseSnapshot().Appointments, nil
	}
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})

	require.NoError(t, w.EnterManage())
	require.NoError(t, w.Search(context.Background(), "souza"))
	require.NoError(t, w.StartReschedule(5))

	s := w.Session()
	assert.Equal(t, domain.StepChoosingDateAndSlot, s.Step)
	assert.Equal(t, domain.IntentReschedule, s.Intent)
	assert.Equal(t, "Ana Souza", s.ClientName)
	assert.Equal(t, int64(1), s.ServiceID)
	assert.Equal(t, today, s.Date)

	// перенос считается по тем же правилам: переносимая запись 10:00-11:00 все еще занимает время
	require.NoError(t, w.SelectDate(tomorrow))
	slots := w.Session().Slots
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "11:30"}, slots[:3])
	for _, slot := range slots {
		begin := slot.Minutes()
		assert.False(t, begin < 11*60 && begin+60 > 10*60, "slot %s overlaps 10:00-11:00", slot)
	}
	assert.ErrorIs(t, w.SelectSlot("10:30"), ErrSlotUnavailable)

	require.NoError(t, w.SelectSlot("11:00"))
	require.NoError(t, w.Submit(context.Background()))

	require.Len(t, booker.reschedules, 1)
	assert.Equal(t, RescheduleRequest{
		OwnerID: ownerID, AppointmentID: 5, ServiceID: 1,
		Date: tomorrow, StartTime: "11:00", EndTime: "12:00",
	}, booker.reschedules[0])
	assert.Empty(t, booker.creates)

	s = w.Session()
	assert.Equal(t, domain.StepSuccess, s.Step)
	assert.Equal(t, domain.StatusRescheduled, s.Result.Status)
}

func TestWizard_RescheduleBackReturnsToManage(t *testing.T) {
	booker := &fakeBooker{}
	booker.searchFn = func(context.Context, int64, string) ([]domain.Appointment, error) {
		return baseSnapshot().Appointments, nil
	}
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})
	require.NoError(t, w.EnterManage())
	require.NoError(t, w.Search(context.Background(), "ana"))
	require.NoError(t, w.StartReschedule(5))

	require.NoError(t, w.Back())

	s := w.Session()
	assert.Equal(t, domain.StepManagingExisting, s.Step)
	assert.Equal(t, domain.IntentCreate, s.Intent)
	assert.Zero(t, s.RescheduleID)
}

func TestWizard_RescheduleOrphanedService(t *testing.T) {
	booker := &fakeBooker{}
	booker.searchFn = func(context.Context, int64, string) ([]domain.Appointment, error) {
		appts := baseSnapshot().Appointments
		appts[0].ServiceID = 0
		return appts, nil
	}
	w := newWizard(t, domain.AudiencePublic, loaderWith(), booker, Options{})
	require.NoError(t, w.EnterManage())
	require.NoError(t, w.Search(context.Background(), "ana"))

	assert.ErrorIs(t, w.StartReschedule(5), ErrServiceNotFound)
	assert.Equal(t, domain.StepManagingExisting, w.Session().Step)
}

func TestWizard_LoadFailure(t *testing.T) {
	loader := &fakeLoader{err: errors.New("timeout")}
	w := New(NewSession("s-3", ownerID, domain.AudiencePublic, now), Options{}, loader, &fakeBooker{}, fixedClock{t: now}, logger.NewNop())

	assert.ErrorIs(t, w.Load(context.Background()), ErrLoadFailed)
	assert.Equal(t, msgLoadFailed, w.Session().LastError)
	assert.False(t, w.Session().Pending)
}
