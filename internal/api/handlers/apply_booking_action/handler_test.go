package apply_booking_action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	got  *models.ActionRequest
	resp *models.SessionResponse
	err  error
}

func (f *fakeService) Apply(_ context.Context, _ int64, _ string, req *models.ActionRequest) (*models.SessionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func post(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/booking-sessions/{sessionId}/actions", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/booking-sessions/abc/actions", strings.NewReader(body)))
	return rec
}

func TestHandler_OK(t *testing.T) {
	svc := &fakeService{resp: &models.SessionResponse{ID: "abc", Step: "choosing_date_and_slot"}}
	rec := post(svc, `{"type":"select_service","serviceId":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ActionSelectService, svc.got.Type)
	assert.Equal(t, int64(3), svc.got.ServiceID)
}

func TestHandler_SlotTakenCarriesSession(t *testing.T) {
	svc := &fakeService{
		resp: &models.SessionResponse{ID: "abc", Step: "choosing_date_and_slot", LastError: "это время только что заняли, выберите другое"},
		err:  wizard.ErrSlotTaken,
	}
	rec := post(svc, `{"type":"submit"}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error string                  `json:"error"`
		Data  *models.SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, svc.resp.LastError, body.Error)
	require.NotNil(t, body.Data)
	assert.Equal(t, "choosing_date_and_slot", body.Data.Step)
}

func TestHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{sessions.ErrSessionNotFound, http.StatusNotFound},
		{sessions.ErrAccessDenied, http.StatusForbidden},
		{wizard.ErrNotAllowed, http.StatusForbidden},
		{wizard.ErrBusy, http.StatusConflict},
		{fmt.Errorf("%w: current step is success", wizard.ErrInvalidTransition), http.StatusConflict},
		{sessions.ErrUnknownAction, http.StatusBadRequest},
		{wizard.ErrDateInPast, http.StatusBadRequest},
		{wizard.ErrSlotUnavailable, http.StatusUnprocessableEntity},
		{wizard.ErrSubmitTimeout, http.StatusGatewayTimeout},
		{wizard.ErrSubmitFailed, http.StatusServiceUnavailable},
		{sessions.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := post(&fakeService{err: tc.err}, `{"type":"back"}`)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandler_BadBody(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, http.StatusBadRequest, post(svc, `{"type":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(svc, `{"type":"back","extra":1}`).Code)
	assert.Nil(t, svc.got)
}
