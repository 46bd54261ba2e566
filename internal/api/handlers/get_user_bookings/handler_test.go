package get_user_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetUserBookings(ctx context.Context, userID string) ([]models.SlotResponse, error) {
	args := m.Called(ctx, userID)
	result, _ := args.Get(0).([]models.SlotResponse)
	return result, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(userID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/my-appointments", nil)
	if userID != "" {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_Success(t *testing.T) {
	owner := "user-1"
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, owner).Return([]models.SlotResponse{
		{ID: "a", Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00", UserID: &owner, Status: "booked"},
	}, nil)
	w := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(w, newRequest(owner))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"user-1"`)
	svc.AssertExpectations(t)
}

func TestHandle_Unauthorized(t *testing.T) {
	svc := &mockService{}
	w := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(w, newRequest(""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetUserBookings", mock.Anything, mock.Anything)
}

func TestHandle_Error(t *testing.T) {
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, "user-1").Return(nil, errors.New("db down"))
	w := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(w, newRequest("user-1"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
