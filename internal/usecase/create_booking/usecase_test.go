package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, appt)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Appointment) *domain.Appointment); ok {
		return fn(ctx, appt), args.Error(1)
	}
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	args := m.Called(ctx, filter)
	appts, _ := args.Get(0).([]domain.Appointment)
	return appts, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByID(ctx context.Context, ownerID, id int64) (*domain.Service, error) {
	args := m.Called(ctx, ownerID, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

type mockHoursRepo struct{ mock.Mock }

func (m *mockHoursRepo) GetByOwner(ctx context.Context, ownerID int64) (domain.WeeklyHours, error) {
	args := m.Called(ctx, ownerID)
	h, _ := args.Get(0).(domain.WeeklyHours)
	return h, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, eventType events.EventType, appt domain.Appointment) error {
	return m.Called(ctx, eventType, appt).Error(0)
}

type countingMetrics struct{ conflicts []string }

func (c *countingMetrics) IncBookingConflict(op string) { c.conflicts = append(c.conflicts, op) }

// fakeTx выполняет функцию без транзакции; commitErr имитирует сбой фиксации
type fakeTx struct{ commitErr error }

func (f fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	// Понедельник 10:47
	now      = time.Date(2026, 10, 19, 10, 47, 0, 0, time.UTC)
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday  = monday.AddDate(0, 0, 1)
	manicure = &domain.Service{ID: 3, OwnerID: 1, Name: "Маникюр", DurationMinutes: 60}
)

type fixture struct {
	appts     *mockAppointmentRepo
	svc       *mockServiceRepo
	hours     *mockHoursRepo
	publisher *mockPublisher
	metrics   *countingMetrics
	tx        fakeTx
}

func newFixture() *fixture {
	return &fixture{
		appts:     &mockAppointmentRepo{},
		svc:       &mockServiceRepo{},
		hours:     &mockHoursRepo{},
		publisher: &mockPublisher{},
		metrics:   &countingMetrics{},
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.appts, f.svc, f.hours, f.publisher, f.metrics, f.tx, fixedClock{t: now}, logger.NewNop())
}

func (f *fixture) withDay(existing ...domain.Appointment) {
	f.svc.On("GetByID", mock.Anything, int64(1), int64(3)).Return(manicure, nil)
	f.hours.On("GetByOwner", mock.Anything, int64(1)).Return(domain.WeeklyHours{}, nil)
	f.appts.On("GetWithFilter", mock.Anything, mock.AnythingOfType("domain.AppointmentsFilter")).Return(existing, nil)
}

func request(date time.Time, start types.TimeString) *Request {
	return &Request{OwnerID: 1, ServiceID: 3, ClientName: "  Ana Souza ", Date: date, StartTime: start}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()
	f.withDay(domain.Appointment{ID: 5, Date: tuesday, StartTime: "09:00", EndTime: "10:00", Status: domain.StatusConfirmed})

	var created *domain.Appointment
	f.appts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Appointment")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Appointment)
			created.ID = 42
		}).
		Return(func(_ context.Context, a *domain.Appointment) *domain.Appointment { return a }, nil)
	f.publisher.On("Publish", mock.Anything, events.AppointmentCreated, mock.AnythingOfType("domain.Appointment")).Return(nil)

	resp, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Ana Souza", created.ClientName)
	assert.Equal(t, types.TimeString("11:00"), created.EndTime)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Equal(t, "Маникюр", created.ServiceName)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "confirmed", resp.Status)
	f.publisher.AssertExpectations(t)
	assert.Empty(t, f.metrics.conflicts)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.withDay()
	f.appts.On("Create", mock.Anything, mock.Anything).Return(&domain.Appointment{ID: 7, StartTime: "10:00", EndTime: "11:00"}, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	resp, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
}

func TestExecute_TimeRules(t *testing.T) {
	sunday := monday.AddDate(0, 0, 6)

	tests := []struct {
		name     string
		date     time.Time
		start    types.TimeString
		existing []domain.Appointment
		wantErr  error
	}{
		{name: "past date", date: monday.AddDate(0, 0, -1), start: "10:00", wantErr: ErrInvalidDate},
		{name: "closed day", date: sunday, start: "10:00", wantErr: ErrDayClosed},
		{name: "before opening", date: tuesday, start: "08:30", wantErr: ErrOutsideHours},
		{name: "runs past closing", date: tuesday, start: "17:30", wantErr: ErrOutsideHours},
		{name: "inside lead time", date: monday, start: "11:00", wantErr: ErrTooLateToBook},
		{
			name:  "overlap",
			date:  tuesday,
			start: "10:30",
			existing: []domain.Appointment{
				{ID: 5, Date: tuesday, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
			},
			wantErr: ErrSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withDay(tt.existing...)

			_, err := f.useCase().Execute(context.Background(), request(tt.date, tt.start))

			assert.ErrorIs(t, err, tt.wantErr)
			f.appts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_TouchingAppointmentIsAllowed(t *testing.T) {
	f := newFixture()
	f.withDay(domain.Appointment{ID: 5, Date: tuesday, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed})
	f.appts.On("Create", mock.Anything, mock.Anything).Return(&domain.Appointment{ID: 8}, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.useCase().Execute(context.Background(), request(tuesday, "11:00"))

	assert.NoError(t, err)
}

func TestExecute_StorageConflicts(t *testing.T) {
	t.Run("exclusion constraint on insert", func(t *testing.T) {
		f := newFixture()
		f.withDay()
		f.appts.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: Create: exclusion", appointmentRepo.ErrSlotConflict))

		_, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Equal(t, []string{"create"}, f.metrics.conflicts)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		f := newFixture()
		f.tx = fakeTx{commitErr: fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})}
		f.withDay()
		f.appts.On("Create", mock.Anything, mock.Anything).Return(&domain.Appointment{ID: 9}, nil)

		_, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Equal(t, []string{"create"}, f.metrics.conflicts)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("serialization failure on locking read", func(t *testing.T) {
		f := newFixture()
		f.svc.On("GetByID", mock.Anything, int64(1), int64(3)).Return(manicure, nil)
		f.hours.On("GetByOwner", mock.Anything, int64(1)).Return(domain.WeeklyHours{}, nil)
		f.appts.On("GetWithFilter", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: GetWithFilter - execute query: %w", appointmentRepo.ErrSlotConflict, &pq.Error{Code: "40001"}))

		_, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.NotErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{"create"}, f.metrics.conflicts)
		f.appts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("serialization failure on hours read", func(t *testing.T) {
		f := newFixture()
		f.svc.On("GetByID", mock.Anything, int64(1), int64(3)).Return(manicure, nil)
		f.hours.On("GetByOwner", mock.Anything, int64(1)).
			Return(nil, fmt.Errorf("select hours: %w", &pq.Error{Code: "40001"}))

		_, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Equal(t, []string{"create"}, f.metrics.conflicts)
	})
}

func TestExecute_InputErrors(t *testing.T) {
	t.Run("empty client name", func(t *testing.T) {
		f := newFixture()
		req := request(tuesday, "10:00")
		req.ClientName = "   "
		_, err := f.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad start time", func(t *testing.T) {
		f := newFixture()
		_, err := f.useCase().Execute(context.Background(), request(tuesday, "9h"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture()
		f.svc.On("GetByID", mock.Anything, int64(1), int64(3)).Return(nil, catalogRepo.ErrServiceNotFound)
		_, err := f.useCase().Execute(context.Background(), request(tuesday, "10:00"))
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}
