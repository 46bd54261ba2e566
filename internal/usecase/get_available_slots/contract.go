package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/ensure_horizon"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListAvailable свободные слоты строго позже (today, nowTime), по возрастанию
	ListAvailable(ctx context.Context, today time.Time, nowTime types.TimeString) ([]*domain.Slot, error)
}

// HorizonEnsurer материализация окна слотов перед чтением
type HorizonEnsurer interface {
	Execute(ctx context.Context, referenceDate time.Time) (*ensure_horizon.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
