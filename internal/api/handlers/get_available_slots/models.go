package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/slots/models"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// toSlotResponses конвертирует ответ use case в модели API
func toSlotResponses(resp *getAvailableSlots.Response) []models.SlotResponse {
	result := make([]models.SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		result = append(result, models.NewSlotResponse(s.ID, s.Date, s.StartTime, s.EndTime, "", s.Status, time.Time{}))
	}
	return result
}
