package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidDaySchedule is returned by DaySchedule.Validate
var ErrInvalidDaySchedule = errors.New("invalid day schedule")

// DaySchedule is one weekday's operating window.
// Disabled days may keep stale Start/End values.
type DaySchedule struct {
	Enabled bool             `json:"enabled"`
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
}

// Validate checks that an enabled day has a well-formed window with start < end
func (d DaySchedule) Validate() error {
	if !d.Enabled {
		return nil
	}
	start, err := types.ParseMinutes(string(d.Start))
	if err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidDaySchedule, err)
	}
	end, err := types.ParseMinutes(string(d.End))
	if err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidDaySchedule, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidDaySchedule, d.Start, d.End)
	}
	return nil
}

// WeeklyHours maps every weekday to its schedule
type WeeklyHours map[time.Weekday]DaySchedule

var weekdayKeys = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayKey returns the lowercase English name used in the API ("monday")
func WeekdayKey(day time.Weekday) string {
	return weekdayKeys[day]
}

// ParseWeekdayKey is the inverse of WeekdayKey
func ParseWeekdayKey(key string) (time.Weekday, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for day, k := range weekdayKeys {
		if k == key {
			return day, true
		}
	}
	return 0, false
}

// DefaultWeeklyHours is used for any weekday the owner never configured:
// Mon-Fri 09:00-18:00, Sat 09:00-14:00, Sun closed.
func DefaultWeeklyHours() WeeklyHours {
	weekday := DaySchedule{Enabled: true, Start: "09:00", End: "18:00"}
	return WeeklyHours{
		time.Monday:    weekday,
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Friday:    weekday,
		time.Saturday:  {Enabled: true, Start: "09:00", End: "14:00"},
		time.Sunday:    {Enabled: false, Start: "00:00", End: "00:00"},
	}
}

// WithDefaults returns a complete copy with missing days filled from DefaultWeeklyHours
func (w WeeklyHours) WithDefaults() WeeklyHours {
	merged := DefaultWeeklyHours()
	for day, schedule := range w {
		if day < time.Sunday || day > time.Saturday {
			continue
		}
		merged[day] = schedule
	}
	return merged
}

// IsComplete returns true if all 7 weekdays are present
func (w WeeklyHours) IsComplete() bool {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if _, ok := w[day]; !ok {
			return false
		}
	}
	return true
}

// ForDate always returns a resolved schedule for the weekday of date
func (w WeeklyHours) ForDate(date time.Time) DaySchedule {
	if schedule, ok := w[date.Weekday()]; ok {
		return schedule
	}
	return DefaultWeeklyHours()[date.Weekday()]
}
