package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// UseCase use case для отмены брони
type UseCase struct {
	slotRepo     SlotRepository
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(slotRepo SlotRepository, metrics Metrics, location *time.Location, logger Logger) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slotRepo:     slotRepo,
		metrics:      metrics,
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

// Execute возвращает забронированный слот в статус available
// Разрешено только владельцу и не позднее чем за CancellationLeadTime до начала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.record(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CancelBooking: user=%s, slot=%s", req.UserID, req.SlotID)

	now := uc.timeProvider.Now()

	// 2. Слот существует
	s, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CancelBooking: slot id=%s not found", req.SlotID)
			return nil, ErrNotFound
		}
		uc.logger.Error("CancelBooking: failed to get slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Слот принадлежит пользователю
	if !s.IsOwnedBy(req.UserID) {
		uc.logger.Warn("CancelBooking: user=%s is not the owner of slot id=%s", req.UserID, s.ID)
		return nil, ErrNotOwner
	}

	// 4. Слот забронирован
	if !s.IsBooked() {
		uc.logger.Warn("CancelBooking: slot id=%s is not booked", s.ID)
		return nil, ErrNotBooked
	}

	// 5. До начала не меньше CancellationLeadTime
	left, err := s.TimeUntilStart(now, uc.location)
	if err != nil {
		uc.logger.Error("CancelBooking: slot id=%s has malformed start time %q: %v", s.ID, s.StartTime, err)
		return nil, fmt.Errorf("%w: malformed start time: %v", ErrInternal, err)
	}
	if left < domain.CancellationLeadTime {
		uc.logger.Warn("CancelBooking: slot id=%s starts in %s, less than %s", s.ID, left, domain.CancellationLeadTime)
		return nil, ErrTooLateToCancel
	}

	// 6. Условное освобождение, повторная конкурентная отмена получит ErrNotBooked
	released, err := uc.slotRepo.Release(ctx, s.ID, req.UserID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotBooked) {
			uc.logger.Warn("CancelBooking: slot id=%s was released concurrently", s.ID)
			return nil, ErrNotBooked
		}
		uc.logger.Error("CancelBooking: failed to release slot id=%s: %v", s.ID, err)
		return nil, fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: slot id=%s released by user=%s", released.ID, req.UserID)

	return toResponse(released), nil
}

func (uc *UseCase) record(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.IncCancellation(metrics.ResultSuccess)
	case isBusinessError(err):
		uc.metrics.IncCancellation(metrics.ResultRejected)
	default:
		uc.metrics.IncCancellation(metrics.ResultError)
	}
}
