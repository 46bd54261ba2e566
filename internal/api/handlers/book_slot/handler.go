package book_slot

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingAppointmentID = "ID слота обязателен"
	msgInvalidInput         = "некорректный ID слота"
	msgNotFound             = "слот не найден"
	msgAlreadyBooked        = "слот уже забронирован"
	msgSlotTaken            = "слот только что забронировал другой пользователь"
	msgSlotInPast           = "нельзя забронировать слот в прошлом"
	msgDuplicateSameDay     = "у вас уже есть запись на этот день"
	msgBooked               = "запись создана"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/book - Missing user identity")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Декодируем body
	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.AppointmentID) == "" {
		h.logger.Warn("POST /appointments/book - Missing appointmentId: user_id=%s", userID)
		handlers.RespondBadRequest(w, msgMissingAppointmentID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /appointments/book - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrNotFound):
			h.logger.Warn("POST /appointments/book - Slot not found: slot_id=%s", req.AppointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookSlot.ErrAlreadyBooked):
			h.logger.Warn("POST /appointments/book - Slot already booked: slot_id=%s", req.AppointmentID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, bookSlot.ErrSlotTaken):
			h.logger.Warn("POST /appointments/book - Slot taken concurrently: slot_id=%s", req.AppointmentID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, bookSlot.ErrDuplicateBookingSameDay):
			h.logger.Warn("POST /appointments/book - Duplicate booking same day: slot_id=%s, user_id=%s",
				req.AppointmentID, userID)
			handlers.RespondConflict(w, msgDuplicateSameDay)

		case errors.Is(err, bookSlot.ErrSlotInPast):
			h.logger.Warn("POST /appointments/book - Slot in the past: slot_id=%s", req.AppointmentID)
			handlers.RespondBadRequest(w, msgSlotInPast)

		default:
			h.logger.Error("POST /appointments/book - Failed to book slot: slot_id=%s, user_id=%s, error=%v",
				req.AppointmentID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/book - Slot booked successfully: slot_id=%s, user_id=%s", resp.ID, userID)
	handlers.RespondSuccess(w, http.StatusCreated, msgBooked, toSlotResponse(resp))
}
