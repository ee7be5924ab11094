// Package availability computes bookable start times for one owner's day.
// Everything here is pure: no I/O, inputs are never mutated.
package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ComputeSlots returns the ordered start times at which a service of
// durationMinutes can begin on target without overlapping intervals.
//
// The cursor starts at the opening time and moves in fixed 30 minute steps.
// When a candidate collides with an interval the cursor jumps to that
// interval's end, so slots after an appointment ending at 10:47 start at 10:47.
// On the current day nothing earlier than now + 30 minutes is offered.
// A disabled day yields no slots.
func ComputeSlots(
	durationMinutes int,
	day domain.DaySchedule,
	intervals []domain.Interval,
	now time.Time,
	target time.Time,
) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if !day.Enabled {
		return slots
	}

	windowStart := day.Start.Minutes()
	windowEnd := day.End.Minutes()

	sorted := make([]domain.Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	isToday := isSameDay(target, now)
	cutoff := now.Hour()*60 + now.Minute() + domain.LeadTimeMinutes

	pointer := windowStart
	for pointer+durationMinutes <= windowEnd {
		if isToday && pointer < cutoff {
			pointer += domain.SlotStepMinutes
			continue
		}

		candidateEnd := pointer + durationMinutes

		if blocking, found := firstOverlap(sorted, pointer, candidateEnd); found {
			pointer = blocking.End
			continue
		}

		slots = append(slots, types.MinutesToTime(pointer))
		pointer += domain.SlotStepMinutes
	}

	return slots
}

// BuildIntervals reduces the owner's appointments to the busy intervals of date.
// Only cancelled appointments are skipped: a rescheduled appointment, including
// the one currently being moved, still blocks its interval.
func BuildIntervals(appointments []domain.Appointment, date time.Time) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(appointments))
	for i := range appointments {
		appt := &appointments[i]
		if !appt.IsActive() || !appt.IsOnDate(date) {
			continue
		}
		intervals = append(intervals, appt.Interval())
	}
	return intervals
}

// FindConflict returns the first interval (in start order) overlapping [start, start+duration)
func FindConflict(start types.TimeString, durationMinutes int, intervals []domain.Interval) (domain.Interval, bool) {
	sorted := make([]domain.Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	begin := start.Minutes()
	return firstOverlap(sorted, begin, begin+durationMinutes)
}

// firstOverlap ищет первый пересекающийся интервал в отсортированном списке.
// При поврежденных данных (интервалы пересекаются между собой) побеждает первый найденный.
func firstOverlap(sorted []domain.Interval, start, end int) (domain.Interval, bool) {
	for _, iv := range sorted {
		if iv.Overlaps(start, end) {
			return iv, true
		}
	}
	return domain.Interval{}, false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня.
// Даты сравниваются по году, месяцу и дню, каждая в своей таймзоне.
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
