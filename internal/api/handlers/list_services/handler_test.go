package list_services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) List(_ context.Context, _ int64) (*models.ServiceListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ServiceListResponse{Services: []models.ServiceResponse{
		{ID: 1, Name: "Стрижка", DurationMinutes: 60, Price: decimal.RequireFromString("1500.00")},
	}}, nil
}

func get(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/owners/{ownerId}/services", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler(t *testing.T) {
	rec := get(&fakeService{}, "/owners/1/services")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"1500"`)

	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "/owners/0/services").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: errors.New("db down")}, "/owners/1/services").Code)
}
