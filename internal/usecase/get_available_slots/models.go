package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Response модель ответа со списком свободных слотов
type Response struct {
	Slots []Slot // Отсортированы по дате и времени начала
}

// Slot модель свободного слота
type Slot struct {
	ID        string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    domain.SlotStatus
}

func toSlot(s *domain.Slot) Slot {
	return Slot{
		ID:        s.ID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
	}
}
