package book_slot

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots/models"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(userID string) *bookSlot.Request {
	return &bookSlot.Request{
		SlotID: r.AppointmentID,
		UserID: userID,
	}
}

func toSlotResponse(resp *bookSlot.Response) models.SlotResponse {
	return models.NewSlotResponse(resp.ID, resp.Date, resp.StartTime, resp.EndTime, resp.OwnerID, resp.Status, resp.UpdatedAt)
}
