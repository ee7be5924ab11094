package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrPastDate дата раньше сегодняшнего дня
	ErrPastDate = errors.New("availability: date is in the past")

	// ErrDayClosed в этот день недели мастер не работает
	ErrDayClosed = errors.New("availability: day is closed")

	// ErrOutsideHours визит не помещается в рабочее окно
	ErrOutsideHours = errors.New("availability: outside business hours")

	// ErrLeadTime на сегодня можно записаться не раньше чем за 30 минут
	ErrLeadTime = errors.New("availability: too late to book this time today")

	// ErrOverlap время пересекается с активной записью
	ErrOverlap = errors.New("availability: overlaps an existing appointment")
)

// CheckCandidate validates a concrete start time on the write path with the
// same rules ComputeSlots uses, except that the start does not have to lie on
// the 30 minute grid. For a date that is not in the past, every slot
// ComputeSlots returns passes this check.
func CheckCandidate(
	start types.TimeString,
	durationMinutes int,
	day domain.DaySchedule,
	intervals []domain.Interval,
	now time.Time,
	target time.Time,
) error {
	if IsDateInPast(target, now) {
		return ErrPastDate
	}

	if !day.Enabled {
		return ErrDayClosed
	}

	begin := start.Minutes()
	end := begin + durationMinutes

	if begin < day.Start.Minutes() || end > day.End.Minutes() {
		return fmt.Errorf("%w: %s-%s not within %s-%s",
			ErrOutsideHours, start, types.MinutesToTime(end), day.Start, day.End)
	}

	if isSameDay(target, now) && begin < now.Hour()*60+now.Minute()+domain.LeadTimeMinutes {
		return ErrLeadTime
	}

	if blocking, found := FindConflict(start, durationMinutes, intervals); found {
		return fmt.Errorf("%w: busy %s-%s",
			ErrOverlap, types.MinutesToTime(blocking.Start), types.MinutesToTime(blocking.End))
	}

	return nil
}
