package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotResponse слот в ответах API
type SlotResponse struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`      // "2025-01-10"
	StartTime string     `json:"startTime"` // "09:00"
	EndTime   string     `json:"endTime"`   // "10:00"
	UserID    *string    `json:"userId,omitempty"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewSlotResponse собирает ответ из полей слота
func NewSlotResponse(
	id string,
	date time.Time,
	startTime, endTime types.TimeString,
	ownerID string,
	status domain.SlotStatus,
	updatedAt time.Time,
) SlotResponse {
	resp := SlotResponse{
		ID:        id,
		Date:      date.Format(domain.DateFormat),
		StartTime: startTime.String(),
		EndTime:   endTime.String(),
		Status:    string(status),
	}
	if ownerID != "" {
		resp.UserID = ptr.Ptr(ownerID)
	}
	if !updatedAt.IsZero() {
		u := updatedAt
		resp.UpdatedAt = &u
	}
	return resp
}

// FromDomainSlot конвертирует domain.Slot в SlotResponse
func FromDomainSlot(s *domain.Slot) SlotResponse {
	resp := SlotResponse{
		ID:        s.ID,
		Date:      s.DateString(),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Status:    string(s.Status),
	}
	if s.OwnerID != nil {
		resp.UserID = ptr.Ptr(*s.OwnerID)
	}
	if !s.CreatedAt.IsZero() {
		c := s.CreatedAt
		resp.CreatedAt = &c
	}
	if !s.UpdatedAt.IsZero() {
		u := s.UpdatedAt
		resp.UpdatedAt = &u
	}
	return resp
}

// FromDomainSlotList конвертирует список слотов, пустой список остается пустым массивом
func FromDomainSlotList(slots []*domain.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, FromDomainSlot(s))
	}
	return result
}
