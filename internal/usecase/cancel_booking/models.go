package cancel_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на отмену брони
type Request struct {
	SlotID string
	UserID string
}

// Response модель освобожденного слота
type Response struct {
	ID        string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    domain.SlotStatus
	UpdatedAt time.Time
}

func toResponse(s *domain.Slot) *Response {
	return &Response{
		ID:        s.ID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
		UpdatedAt: s.UpdatedAt,
	}
}
