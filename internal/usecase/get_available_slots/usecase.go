package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения свободных слотов
type UseCase struct {
	slotRepo     SlotRepository
	ensurer      HorizonEnsurer
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location часовой пояс, в котором интерпретируются даты и время слотов
func NewUseCase(
	slotRepo SlotRepository,
	ensurer HorizonEnsurer,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slotRepo:     slotRepo,
		ensurer:      ensurer,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает свободные слоты, начало которых строго позже текущего момента
// Перед чтением догенерирует окно слотов начиная с сегодняшнего дня
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	// 1. Текущий момент в часовом поясе сервиса
	now := uc.timeProvider.Now().In(uc.location)
	today := domain.DateOnly(now)

	// 2. Материализуем окно
	if _, err := uc.ensurer.Execute(ctx, today); err != nil {
		uc.logger.Error("GetAvailableSlots: failed to ensure horizon from %s: %v", today.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to ensure horizon: %v", ErrInternal, err)
	}

	// 3. Фильтрация и сортировка выполняются хранилищем
	slots, err := uc.slotRepo.ListAvailable(ctx, today, types.NewTimeString(now))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list available slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list available slots: %v", ErrInternal, err)
	}

	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, toSlot(s))
	}

	uc.logger.Info("GetAvailableSlots: found %d available slots", len(result))

	return &Response{Slots: result}, nil
}
