package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	cancelBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidInput  = "некорректный ID слота"
	msgNotFound      = "слот не найден"
	msgNotOwner      = "можно отменить только свою запись"
	msgNotBooked     = "слот не забронирован"
	msgTooLateCancel = "отменить запись можно не позднее чем за 24 часа до начала"
	msgCancelled     = "запись отменена"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/appointments/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /appointments/{id}/cancel - Missing user identity")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Извлекаем id слота из URL
	slotID := mux.Vars(r)["id"]

	resp, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		SlotID: slotID,
		UserID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("DELETE /appointments/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, cancelBooking.ErrNotFound):
			h.logger.Warn("DELETE /appointments/{id}/cancel - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrNotOwner):
			h.logger.Warn("DELETE /appointments/{id}/cancel - Not owner: slot_id=%s, user_id=%s", slotID, userID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, cancelBooking.ErrNotBooked):
			h.logger.Warn("DELETE /appointments/{id}/cancel - Slot not booked: slot_id=%s", slotID)
			handlers.RespondBadRequest(w, msgNotBooked)

		case errors.Is(err, cancelBooking.ErrTooLateToCancel):
			h.logger.Warn("DELETE /appointments/{id}/cancel - Too late to cancel: slot_id=%s", slotID)
			handlers.RespondBadRequest(w, msgTooLateCancel)

		default:
			h.logger.Error("DELETE /appointments/{id}/cancel - Failed to cancel booking: slot_id=%s, error=%v",
				slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /appointments/{id}/cancel - Booking cancelled successfully: slot_id=%s, user_id=%s",
		slotID, userID)
	handlers.RespondSuccess(w, http.StatusOK, msgCancelled, toSlotResponse(resp))
}
