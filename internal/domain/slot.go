package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotStatus represents the status of an appointment slot
type SlotStatus string

const (
	StatusAvailable SlotStatus = "available"
	StatusBooked    SlotStatus = "booked"
)

// IsValid returns true for known statuses
func (s SlotStatus) IsValid() bool {
	return s == StatusAvailable || s == StatusBooked
}

// Slot represents a one-hour appointment slot
// OwnerID задан тогда и только тогда, когда Status = booked
type Slot struct {
	ID        string
	Date      time.Time // Календарная дата, время суток не используется
	StartTime types.TimeString
	EndTime   types.TimeString
	OwnerID   *string
	Status    SlotStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBooked returns true if the slot is held by a user
func (s *Slot) IsBooked() bool {
	return s.Status == StatusBooked
}

// IsAvailable returns true if the slot can be booked
func (s *Slot) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// IsOwnedBy returns true if the slot is booked by userID
func (s *Slot) IsOwnedBy(userID string) bool {
	return s.OwnerID != nil && *s.OwnerID == userID
}

// DateString дата в формате YYYY-MM-DD
func (s *Slot) DateString() string {
	return s.Date.Format(DateFormat)
}

// Key уникальный ключ (date, startTime)
func (s *Slot) Key() string {
	return SlotKey(s.Date, s.StartTime)
}

// EffectiveStart момент начала слота в часовом поясе loc
func (s *Slot) EffectiveStart(loc *time.Location) (time.Time, error) {
	hour, minute, err := s.StartTime.Clock()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

// TimeUntilStart сколько осталось до начала слота относительно now
func (s *Slot) TimeUntilStart(now time.Time, loc *time.Location) (time.Duration, error) {
	start, err := s.EffectiveStart(loc)
	if err != nil {
		return 0, err
	}
	return start.Sub(now), nil
}

// SlotKey строит ключ "YYYY-MM-DD_HH:MM"
func SlotKey(date time.Time, startTime types.TimeString) string {
	return date.Format(DateFormat) + "_" + startTime.String()
}

// DateOnly обнуляет время суток, оставляя дату в исходном часовом поясе
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate сравнивает только календарные даты
func SameDate(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
