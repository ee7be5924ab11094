package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// Понедельник, используется как "сегодня"
	today    = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)

	fullDay = domain.DaySchedule{Enabled: true, Start: "09:00", End: "18:00"}
)

func at(hour, minute int) time.Time {
	return time.Date(today.Year(), today.Month(), today.Day(), hour, minute, 0, 0, time.UTC)
}

func expectSlots(from, to types.TimeString) []types.TimeString {
	slots := make([]types.TimeString, 0)
	for m := from.Minutes(); m <= to.Minutes(); m += 30 {
		slots = append(slots, types.MinutesToTime(m))
	}
	return slots
}

func TestComputeSlots_NoAppointments(t *testing.T) {
	slots := ComputeSlots(90, fullDay, nil, at(8, 0), tomorrow)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Equal(t, types.TimeString("09:30"), slots[1])
	assert.Equal(t, types.TimeString("16:30"), slots[len(slots)-1])
	assert.Equal(t, expectSlots("09:00", "16:30"), slots)
}

func TestComputeSlots_JumpsPastBlockingAppointment(t *testing.T) {
	busy := []domain.Interval{{Start: 600, End: 690}} // 10:00-11:30

	slots := ComputeSlots(90, fullDay, busy, at(8, 0), tomorrow)

	assert.Equal(t, expectSlots("11:30", "16:30"), slots)
	assert.NotContains(t, slots, types.TimeString("09:00"))
	assert.NotContains(t, slots, types.TimeString("09:30"))
}

func TestComputeSlots_TodayLeadTime(t *testing.T) {
	slots := ComputeSlots(30, fullDay, nil, at(14, 5), today)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("15:00"), slots[0])
	for _, s := range slots {
		assert.GreaterOrEqual(t, s.Minutes(), 14*60+5+30)
	}
}

func TestComputeSlots_CancelledAppointmentIgnored(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: 1, Date: tomorrow, StartTime: "10:00", EndTime: "11:30", Status: domain.StatusCancelled},
	}

	withCancelled := ComputeSlots(90, fullDay, BuildIntervals(appointments, tomorrow), at(8, 0), tomorrow)
	empty := ComputeSlots(90, fullDay, nil, at(8, 0), tomorrow)

	assert.Equal(t, empty, withCancelled)
}

func TestComputeSlots_ClosedDay(t *testing.T) {
	closed := domain.DaySchedule{Enabled: false, Start: "09:00", End: "18:00"}

	slots := ComputeSlots(30, closed, nil, at(8, 0), tomorrow)

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestComputeSlots_NonRoundSlotAfterAppointment(t *testing.T) {
	busy := []domain.Interval{{Start: 600, End: 647}} // 10:00-10:47

	slots := ComputeSlots(30, fullDay, busy, at(8, 0), tomorrow)

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:47", "11:17"}, slots[:4])
}

func TestComputeSlots_TouchingIntervalsDoNotBlock(t *testing.T) {
	busy := []domain.Interval{
		{Start: 540, End: 570}, // 09:00-09:30
		{Start: 630, End: 660}, // 10:30-11:00
	}

	slots := ComputeSlots(60, fullDay, busy, at(8, 0), tomorrow)

	// 09:30-10:30 ends exactly where the second appointment starts
	assert.Equal(t, []types.TimeString{"09:30", "11:00", "11:30"}, slots[:3])
}

func TestComputeSlots_DegenerateWindow(t *testing.T) {
	inverted := domain.DaySchedule{Enabled: true, Start: "18:00", End: "09:00"}

	assert.Empty(t, ComputeSlots(30, inverted, nil, at(8, 0), tomorrow))
	assert.Empty(t, ComputeSlots(600, fullDay, nil, at(8, 0), tomorrow), "service longer than the window")
}

func TestComputeSlots_CorruptedOverlappingData(t *testing.T) {
	busy := []domain.Interval{
		{Start: 660, End: 720}, // 11:00-12:00
		{Start: 600, End: 690}, // 10:00-11:30, overlaps the first
	}

	slots := ComputeSlots(60, fullDay, busy, at(8, 0), tomorrow)

	// 09:00 fits; 09:30 hits 10:00-11:30 first, jump to 11:30 which hits 11:00-12:00, jump to 12:00
	assert.Equal(t, []types.TimeString{"09:00", "12:00", "12:30"}, slots[:3])
}

func TestComputeSlots_DoesNotMutateInput(t *testing.T) {
	busy := []domain.Interval{{Start: 800, End: 830}, {Start: 600, End: 630}}
	original := append([]domain.Interval(nil), busy...)

	ComputeSlots(30, fullDay, busy, at(8, 0), tomorrow)

	assert.Equal(t, original, busy)
}

// Свойства проверяются на случайных входных данных с фиксированным seed
func TestComputeSlots_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	durations := []int{15, 30, 45, 60, 90, 120}

	for i := 0; i < 500; i++ {
		start := rng.Intn(12*60) + 6*60
		end := start + rng.Intn(10*60) + 30
		if end > 23*60+59 {
			end = 23*60 + 59
		}
		day := domain.DaySchedule{Enabled: rng.Intn(6) != 0, Start: types.MinutesToTime(start), End: types.MinutesToTime(end)}
		dur := durations[rng.Intn(len(durations))]

		busy := make([]domain.Interval, 0)
		cursor := start
		for cursor < end {
			cursor += rng.Intn(120)
			length := rng.Intn(100) + 5
			busy = append(busy, domain.Interval{Start: cursor, End: cursor + length})
			cursor += length
		}

		target := tomorrow
		now := at(rng.Intn(24), rng.Intn(60))
		if rng.Intn(2) == 0 {
			target = today
		}

		slots := ComputeSlots(dur, day, busy, now, target)

		if !day.Enabled {
			require.Empty(t, slots, "closed day")
			continue
		}

		for j, s := range slots {
			m := s.Minutes()
			require.LessOrEqual(t, m+dur, end, "fit")
			if j > 0 {
				require.Greater(t, m, slots[j-1].Minutes(), "ordering")
			}
			for _, iv := range busy {
				require.False(t, m < iv.End && m+dur > iv.Start, "non-collision %s with %v", s, iv)
			}
			if target.Equal(today) {
				require.GreaterOrEqual(t, m, now.Hour()*60+now.Minute()+30, "lead time")
			}
			require.NoError(t, CheckCandidate(s, dur, day, busy, now, target))
		}
	}
}

func TestBuildIntervals(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: 1, Date: tomorrow, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{ID: 2, Date: tomorrow, StartTime: "12:00", EndTime: "13:00", Status: domain.StatusRescheduled},
		{ID: 3, Date: tomorrow, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusCancelled},
		{ID: 4, Date: today, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}

	assert.Equal(t,
		[]domain.Interval{{Start: 600, End: 660}, {Start: 720, End: 780}},
		BuildIntervals(appointments, tomorrow))
}

func TestIsDateInPast(t *testing.T) {
	assert.True(t, IsDateInPast(today.AddDate(0, 0, -1), at(0, 0)))
	assert.False(t, IsDateInPast(today, at(23, 59)))
	assert.False(t, IsDateInPast(tomorrow, at(10, 0)))

	// Поздний вечер в UTC-3 еще "сегодня", хотя в UTC уже завтра
	saoPaulo := time.FixedZone("UTC-3", -3*60*60)
	evening := time.Date(2026, 10, 19, 22, 0, 0, 0, saoPaulo)
	assert.False(t, IsDateInPast(today, evening))
}
