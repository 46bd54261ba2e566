// Package memstore хранилище слотов в памяти для тестов usecase-ов.
// Повторяет семантику slot.Repository: условные обновления, уникальность
// (date, start_time) и не более одной брони владельца на дату.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Store потокобезопасное хранилище слотов
type Store struct {
	mu    sync.Mutex
	slots map[string]*domain.Slot
	keys  map[string]string // key -> id
	err   error
	now   func() time.Time

	insertCalls int
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		slots: make(map[string]*domain.Slot),
		keys:  make(map[string]string),
		now:   time.Now,
	}
}

// FailWith заставляет все последующие операции возвращать err (nil сбрасывает)
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// InsertCalls количество вызовов InsertMany с непустой пачкой
func (s *Store) InsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCalls
}

// Len количество слотов в хранилище
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// All возвращает копии всех слотов, отсортированные по (date, start_time)
func (s *Store) All() []*domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		result = append(result, clone(slot))
	}
	sortSlots(result)
	return result
}

// Put кладет слот как есть, перезаписывая существующий с тем же ID
func (s *Store) Put(slot *domain.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := clone(slot)
	s.slots[stored.ID] = stored
	s.keys[stored.Key()] = stored.ID
}

// Create создает один слот
func (s *Store) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if _, exists := s.keys[slot.Key()]; exists {
		return nil, slotRepo.ErrSlotExists
	}

	stored := s.stamp(clone(slot))
	s.slots[stored.ID] = stored
	s.keys[stored.Key()] = stored.ID

	return clone(stored), nil
}

// InsertMany вставляет слоты, пропуская уже существующие ключи
func (s *Store) InsertMany(_ context.Context, slots []*domain.Slot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if len(slots) == 0 {
		return 0, nil
	}
	s.insertCalls++

	var inserted int64
	for _, slot := range slots {
		if _, exists := s.keys[slot.Key()]; exists {
			continue
		}
		stored := s.stamp(clone(slot))
		s.slots[stored.ID] = stored
		s.keys[stored.Key()] = stored.ID
		inserted++
	}

	return inserted, nil
}

// GetExistingKeys ключи слотов в диапазоне дат включительно
func (s *Store) GetExistingKeys(_ context.Context, from, to time.Time) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	fromStr := from.Format(domain.DateFormat)
	toStr := to.Format(domain.DateFormat)

	keys := make(map[string]struct{})
	for _, slot := range s.slots {
		date := slot.DateString()
		if date >= fromStr && date <= toStr {
			keys[slot.Key()] = struct{}{}
		}
	}
	return keys, nil
}

// GetByID получает слот по ID
func (s *Store) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	slot, ok := s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return clone(slot), nil
}

// ListAvailable свободные слоты строго позже (today, nowTime)
func (s *Store) ListAvailable(_ context.Context, today time.Time, nowTime types.TimeString) ([]*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	todayStr := today.Format(domain.DateFormat)

	result := make([]*domain.Slot, 0)
	for _, slot := range s.slots {
		if !slot.IsAvailable() {
			continue
		}
		date := slot.DateString()
		if date > todayStr || (date == todayStr && slot.StartTime.IsAfter(nowTime)) {
			result = append(result, clone(slot))
		}
	}
	sortSlots(result)
	return result, nil
}

// ListBookedByOwner забронированные владельцем слоты
func (s *Store) ListBookedByOwner(_ context.Context, ownerID string) ([]*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	result := make([]*domain.Slot, 0)
	for _, slot := range s.slots {
		if slot.IsBooked() && slot.IsOwnedBy(ownerID) {
			result = append(result, clone(slot))
		}
	}
	sortSlots(result)
	return result, nil
}

// HasBookingOnDate есть ли у владельца бронь на дату
func (s *Store) HasBookingOnDate(_ context.Context, ownerID string, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return false, s.err
	}
	return s.ownerHasDate(ownerID, date.Format(domain.DateFormat), ""), nil
}

// Book условное назначение владельца, аналог UPDATE ... WHERE status = 'available'
func (s *Store) Book(_ context.Context, id string, ownerID string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	slot, ok := s.slots[id]
	if !ok || !slot.IsAvailable() {
		return nil, slotRepo.ErrSlotNotAvailable
	}
	if s.ownerHasDate(ownerID, slot.DateString(), id) {
		return nil, slotRepo.ErrOwnerDayConflict
	}

	owner := ownerID
	slot.OwnerID = &owner
	slot.Status = domain.StatusBooked
	slot.UpdatedAt = s.now()

	return clone(slot), nil
}

// Release условное освобождение, аналог UPDATE ... WHERE owner_id = ? AND status = 'booked'
func (s *Store) Release(_ context.Context, id string, ownerID string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	slot, ok := s.slots[id]
	if !ok || !slot.IsBooked() || !slot.IsOwnedBy(ownerID) {
		return nil, slotRepo.ErrSlotNotBooked
	}

	slot.OwnerID = nil
	slot.Status = domain.StatusAvailable
	slot.UpdatedAt = s.now()

	return clone(slot), nil
}

func (s *Store) ownerHasDate(ownerID, date, exceptID string) bool {
	for id, slot := range s.slots {
		if id == exceptID {
			continue
		}
		if slot.IsBooked() && slot.IsOwnedBy(ownerID) && slot.DateString() == date {
			return true
		}
	}
	return false
}

func (s *Store) stamp(slot *domain.Slot) *domain.Slot {
	now := s.now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	return slot
}

func clone(slot *domain.Slot) *domain.Slot {
	c := *slot
	if slot.OwnerID != nil {
		owner := *slot.OwnerID
		c.OwnerID = &owner
	}
	return &c
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Key() < slots[j].Key()
	})
}
