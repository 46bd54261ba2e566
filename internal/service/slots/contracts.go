package slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListBookedByOwner(ctx context.Context, ownerID string) ([]*domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
