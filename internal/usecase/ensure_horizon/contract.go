package ensure_horizon

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetExistingKeys(ctx context.Context, from, to time.Time) (map[string]struct{}, error)
	InsertMany(ctx context.Context, slots []*domain.Slot) (int64, error)
}

// Metrics счетчик созданных слотов
type Metrics interface {
	AddSlotsGenerated(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
