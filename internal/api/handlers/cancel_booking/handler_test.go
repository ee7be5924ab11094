package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct{ err error }

func (f fakeService) Cancel(context.Context, int64, int64) error { return f.err }

func TestHandler(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"ok", "/owners/1/appointments/5/cancel", nil, http.StatusNoContent},
		{"bad id", "/owners/1/appointments/zero/cancel", nil, http.StatusBadRequest},
		{"not found", "/owners/1/appointments/5/cancel", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"already cancelled", "/owners/1/appointments/5/cancel", appointments.ErrCannotCancel, http.StatusConflict},
		{"internal", "/owners/1/appointments/5/cancel", appointments.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/owners/{ownerId}/appointments/{appointmentId}/cancel", NewHandler(fakeService{err: tc.err}, logger.NewNop()).Handle)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
