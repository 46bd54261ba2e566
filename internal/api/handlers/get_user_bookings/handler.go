package get_user_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgUnauthorized      = "требуется авторизация"
	msgBookingsRetrieved = "ваши записи получены"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/my-appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/my-appointments - Missing user identity")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /appointments/my-appointments - Failed to get bookings: user_id=%s, error=%v",
			userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/my-appointments - Bookings retrieved successfully: user_id=%s, count=%d",
		userID, len(result))
	handlers.RespondSuccess(w, http.StatusOK, msgBookingsRetrieved, result)
}
