package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestCheckCandidate(t *testing.T) {
	busy := []domain.Interval{{Start: 600, End: 690}}

	tests := []struct {
		name    string
		start   string
		dur     int
		day     domain.DaySchedule
		target  bool // true = today
		wantErr error
	}{
		{name: "free", start: "11:30", dur: 60, day: fullDay},
		{name: "off grid but free", start: "11:47", dur: 30, day: fullDay},
		{name: "overlap", start: "09:30", dur: 60, day: fullDay, wantErr: ErrOverlap},
		{name: "ends at window end", start: "17:00", dur: 60, day: fullDay},
		{name: "past window end", start: "17:30", dur: 60, day: fullDay, wantErr: ErrOutsideHours},
		{name: "before opening", start: "08:30", dur: 30, day: fullDay, wantErr: ErrOutsideHours},
		{name: "closed", start: "11:30", dur: 30, day: domain.DaySchedule{Start: "09:00", End: "18:00"}, wantErr: ErrDayClosed},
		{name: "today too soon", start: "14:30", dur: 30, day: fullDay, target: true, wantErr: ErrLeadTime},
		{name: "today ok", start: "14:35", dur: 30, day: fullDay, target: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tomorrow
			if tt.target {
				target = today
			}

			err := CheckCandidate(types.TimeString(tt.start), tt.dur, tt.day, busy, at(14, 5), target)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckCandidate_PastDate(t *testing.T) {
	err := CheckCandidate("10:00", 30, fullDay, nil, at(9, 0), today.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrPastDate)
}
