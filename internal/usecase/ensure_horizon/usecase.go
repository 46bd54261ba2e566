package ensure_horizon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase материализует сетку слотов на скользящее окно вперед
type UseCase struct {
	slotRepo SlotRepository
	metrics  Metrics
	logger   Logger
	newID    func() string
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(slotRepo SlotRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		metrics:  metrics,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Execute гарантирует, что для каждого дня [referenceDate, referenceDate+HorizonDays)
// и каждого часа [FirstSlotHour, LastSlotHour) существует слот
// Повторный вызов на неизменном хранилище ничего не пишет
func (uc *UseCase) Execute(ctx context.Context, referenceDate time.Time) (*Response, error) {
	from, to := horizon(referenceDate)

	// 1. Одним запросом читаем уже существующие ключи окна
	existing, err := uc.slotRepo.GetExistingKeys(ctx, from, to)
	if err != nil {
		uc.logger.Error("EnsureHorizon: failed to get existing keys %s..%s: %v",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get existing keys: %v", ErrInternal, err)
	}

	// 2. Готовим недостающие слоты
	missing, err := buildMissingSlots(from, existing, uc.newID)
	if err != nil {
		uc.logger.Error("EnsureHorizon: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}

	resp := &Response{
		From:      from,
		To:        to,
		Requested: len(missing),
	}

	if len(missing) == 0 {
		return resp, nil
	}

	// 3. Одна пакетная вставка, дубликаты от конкурентного генератора пропускаются
	inserted, err := uc.slotRepo.InsertMany(ctx, missing)
	if err != nil {
		uc.logger.Error("EnsureHorizon: failed to insert %d slots: %v", len(missing), err)
		return nil, fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
	}
	resp.Inserted = int(inserted)

	if uc.metrics != nil {
		uc.metrics.AddSlotsGenerated(resp.Inserted)
	}

	if resp.Inserted < resp.Requested {
		uc.logger.Warn("EnsureHorizon: %d of %d slots already created concurrently",
			resp.Requested-resp.Inserted, resp.Requested)
	}

	uc.logger.Info("EnsureHorizon: window %s..%s, inserted %d slots",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), resp.Inserted)

	return resp, nil
}
