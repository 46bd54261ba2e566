package slots

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/slots/models"
)

// Service сервис чтения слотов пользователя
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// GetUserBookings получает забронированные пользователем слоты по возрастанию даты и времени
func (s *Service) GetUserBookings(ctx context.Context, userID string) ([]models.SlotResponse, error) {
	if strings.TrimSpace(userID) == "" {
		s.logger.Warn("GetUserBookings: empty user id")
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	s.logger.Info("GetUserBookings: fetching bookings for user=%s", userID)

	booked, err := s.slotRepo.ListBookedByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(booked), userID)
	return models.FromDomainSlotList(booked), nil
}
