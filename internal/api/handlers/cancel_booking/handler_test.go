package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
)

const slotID = "4b8c7a52-1f0e-4c1f-9d0a-3a7c2b1e5f60"

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cancelBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// serve прогоняет запрос через роутер, чтобы заполнились mux.Vars
func serve(h *Handler, userID string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{id}/cancel", h.Handle).Methods(http.MethodDelete)

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+slotID+"/cancel", nil)
	if userID != "" {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &cancelBooking.Request{SlotID: slotID, UserID: "user-1"}).
		Return(&cancelBooking.Response{
			ID:        slotID,
			Date:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    domain.StatusAvailable,
		}, nil)

	w := serve(NewHandler(uc, nopLogger{}), "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"available"`)
	assert.NotContains(t, w.Body.String(), `"userId"`)
	uc.AssertExpectations(t)
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &mockUseCase{}

	w := serve(NewHandler(uc, nopLogger{}), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "invalid input", err: cancelBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput},
		{name: "not found", err: cancelBooking.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: msgNotFound},
		{name: "not owner", err: cancelBooking.ErrNotOwner, wantStatus: http.StatusForbidden, wantMsg: msgNotOwner},
		{name: "not booked", err: cancelBooking.ErrNotBooked, wantStatus: http.StatusBadRequest, wantMsg: msgNotBooked},
		{name: "too late", err: cancelBooking.ErrTooLateToCancel, wantStatus: http.StatusBadRequest, wantMsg: msgTooLateCancel},
		{name: "internal", err: cancelBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(uc, nopLogger{}), "user-1")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, w.Body.String(), tt.wantMsg)
			}
		})
	}
}
