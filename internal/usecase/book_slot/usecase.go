package book_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// UseCase use case для бронирования слота
type UseCase struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slotRepo:     slotRepo,
		txManager:    txManager,
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

// Execute бронирует слот за пользователем
// Все проверки и запись выполняются в одной транзакции, строка слота читается FOR UPDATE,
// победителя гонки определяет условный UPDATE ... WHERE status = 'available'
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.record(err)
		return nil, err
	}

	uc.logger.Info("BookSlot: user=%s, slot=%s", req.UserID, req.SlotID)

	now := uc.timeProvider.Now()

	var result *domain.Slot

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Слот существует
		s, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("BookSlot: slot id=%s not found", req.SlotID)
				return ErrNotFound
			}
			uc.logger.Error("BookSlot: failed to get slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 3. Слот свободен
		if !s.IsAvailable() {
			uc.logger.Warn("BookSlot: slot id=%s is already booked", s.ID)
			return ErrAlreadyBooked
		}

		// 4. Начало слота строго в будущем
		start, err := s.EffectiveStart(uc.location)
		if err != nil {
			uc.logger.Error("BookSlot: slot id=%s has malformed start time %q: %v", s.ID, s.StartTime, err)
			return fmt.Errorf("%w: malformed start time: %v", ErrInternal, err)
		}
		if !start.After(now) {
			uc.logger.Warn("BookSlot: slot id=%s started at %s, now %s",
				s.ID, start.Format(time.RFC3339), now.In(uc.location).Format(time.RFC3339))
			return ErrSlotInPast
		}

		// 5. У пользователя нет другой брони на эту дату
		hasBooking, err := uc.slotRepo.HasBookingOnDate(txCtx, req.UserID, s.Date)
		if err != nil {
			uc.logger.Error("BookSlot: failed to check bookings of user=%s on %s: %v", req.UserID, s.DateString(), err)
			return fmt.Errorf("%w: failed to check same day booking: %v", ErrInternal, err)
		}
		if hasBooking {
			uc.logger.Warn("BookSlot: user=%s already has a booking on %s", req.UserID, s.DateString())
			return ErrDuplicateBookingSameDay
		}

		// 6. Условное назначение владельца
		booked, err := uc.slotRepo.Book(txCtx, s.ID, req.UserID)
		if err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNotAvailable):
				uc.logger.Warn("BookSlot: slot id=%s was taken concurrently", s.ID)
				return ErrSlotTaken
			case errors.Is(err, slotRepo.ErrOwnerDayConflict):
				uc.logger.Warn("BookSlot: user=%s got a concurrent booking on %s", req.UserID, s.DateString())
				return ErrDuplicateBookingSameDay
			default:
				uc.logger.Error("BookSlot: failed to book slot id=%s: %v", s.ID, err)
				return fmt.Errorf("%w: failed to book slot: %v", ErrInternal, err)
			}
		}

		result = booked
		return nil
	})

	if err != nil {
		if !isBusinessError(err) && !errors.Is(err, ErrInternal) {
			uc.logger.Error("BookSlot: transaction failed: %v", err)
			err = fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
		uc.record(err)
		return nil, err
	}

	uc.record(nil)
	uc.logger.Info("BookSlot: slot id=%s booked by user=%s", result.ID, req.UserID)

	return toResponse(result), nil
}

func (uc *UseCase) record(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.IncBooking(metrics.ResultSuccess)
	case isBusinessError(err):
		uc.metrics.IncBooking(metrics.ResultRejected)
	default:
		uc.metrics.IncBooking(metrics.ResultError)
	}
}
