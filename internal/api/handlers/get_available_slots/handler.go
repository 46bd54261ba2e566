package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgSlotsRetrieved = "свободные слоты получены"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/available
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("GET /appointments/available - Failed to get available slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/available - Available slots retrieved: count=%d", len(resp.Slots))
	handlers.RespondSuccess(w, http.StatusOK, msgSlotsRetrieved, toSlotResponses(resp))
}
