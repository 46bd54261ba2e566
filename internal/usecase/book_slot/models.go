package book_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	SlotID string // ID слота (UUID)
	UserID string // Проверенный ID пользователя от Identity
}

// Response модель забронированного слота
type Response struct {
	ID        string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	OwnerID   string
	Status    domain.SlotStatus
	UpdatedAt time.Time
}

func toResponse(s *domain.Slot) *Response {
	resp := &Response{
		ID:        s.ID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
		UpdatedAt: s.UpdatedAt,
	}
	if s.OwnerID != nil {
		resp.OwnerID = *s.OwnerID
	}
	return resp
}
