package cancel_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots/models"
	cancelBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
)

func toSlotResponse(resp *cancelBooking.Response) models.SlotResponse {
	return models.NewSlotResponse(resp.ID, resp.Date, resp.StartTime, resp.EndTime, "", resp.Status, resp.UpdatedAt)
}
