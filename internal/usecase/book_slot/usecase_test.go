package book_slot_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var now = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

type resultMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *resultMetrics) IncBooking(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

func putSlot(store *memstore.Store, date string, start types.TimeString, owner *string) string {
	d, _ := time.Parse(domain.DateFormat, date)
	end, _ := start.AddMinutes(domain.SlotDurationMinutes)
	status := domain.StatusAvailable
	if owner != nil {
		status = domain.StatusBooked
	}
	id := uuid.NewString()
	store.Put(&domain.Slot{ID: id, Date: d, StartTime: start, EndTime: end, OwnerID: owner, Status: status})
	return id
}

func newUseCase(repo book_slot.SlotRepository, m book_slot.Metrics) *book_slot.UseCase {
	return book_slot.NewUseCase(repo, &memstore.TxManager{}, m, time.UTC, testutil.NopLogger{}).
		WithTimeProvider(testutil.NewClock(now))
}

func TestExecute_Success(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-10", "09:00", nil)
	m := &resultMetrics{}
	uc := newUseCase(store, m)

	resp, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "user-1", resp.OwnerID)
	assert.Equal(t, domain.StatusBooked, resp.Status)
	assert.Equal(t, "09:00", resp.StartTime.String())
	assert.Equal(t, 1, m.results[metrics.ResultSuccess])

	stored, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsBooked())
	assert.True(t, stored.IsOwnedBy("user-1"))
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(memstore.New(), nil)

	tests := []struct {
		name string
		req  *book_slot.Request
	}{
		{name: "nil request", req: nil},
		{name: "empty user", req: &book_slot.Request{SlotID: uuid.NewString()}},
		{name: "empty slot", req: &book_slot.Request{UserID: "user-1"}},
		{name: "slot is not uuid", req: &book_slot.Request{SlotID: "42", UserID: "user-1"}},
		{name: "urn form", req: &book_slot.Request{SlotID: "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", UserID: "user-1"}},
		{name: "braced form", req: &book_slot.Request{SlotID: "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", UserID: "user-1"}},
		{name: "no hyphens", req: &book_slot.Request{SlotID: "6ba7b8109dad11d180b400c04fd430c8", UserID: "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, book_slot.ErrInvalidInput)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	uc := newUseCase(memstore.New(), nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: uuid.NewString(), UserID: "user-1"})

	assert.ErrorIs(t, err, book_slot.ErrNotFound)
}

func TestExecute_AlreadyBooked(t *testing.T) {
	store := memstore.New()
	other := "user-2"
	id := putSlot(store, "2025-01-10", "09:00", &other)
	m := &resultMetrics{}
	uc := newUseCase(store, m)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	assert.ErrorIs(t, err, book_slot.ErrAlreadyBooked)
	assert.Equal(t, 1, m.results[metrics.ResultRejected])
}

func TestExecute_SlotInPast(t *testing.T) {
	store := memstore.New()
	startsNow := putSlot(store, "2025-01-09", "12:00", nil)
	startedBefore := putSlot(store, "2025-01-09", "09:00", nil)
	uc := newUseCase(store, nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: startsNow, UserID: "user-1"})
	assert.ErrorIs(t, err, book_slot.ErrSlotInPast, "slot starting exactly now is not in the future")

	_, err = uc.Execute(context.Background(), &book_slot.Request{SlotID: startedBefore, UserID: "user-1"})
	assert.ErrorIs(t, err, book_slot.ErrSlotInPast)
}

func TestExecute_LaterTodayIsBookable(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-09", "13:00", nil)
	uc := newUseCase(store, nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	assert.NoError(t, err)
}

func TestExecute_DuplicateBookingSameDay(t *testing.T) {
	store := memstore.New()
	user := "user-1"
	putSlot(store, "2025-01-10", "09:00", &user)
	sameDay := putSlot(store, "2025-01-10", "11:00", nil)
	nextDay := putSlot(store, "2025-01-11", "11:00", nil)
	uc := newUseCase(store, nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: sameDay, UserID: user})
	assert.ErrorIs(t, err, book_slot.ErrDuplicateBookingSameDay)

	_, err = uc.Execute(context.Background(), &book_slot.Request{SlotID: nextDay, UserID: user})
	assert.NoError(t, err)

	_, err = uc.Execute(context.Background(), &book_slot.Request{SlotID: sameDay, UserID: "user-2"})
	assert.NoError(t, err, "other users are not limited by user-1 bookings")
}

// racingRepo после чтения слота отдает его конкурирующему пользователю
type racingRepo struct {
	*memstore.Store
	rival string
}

func (r *racingRepo) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	s, err := r.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.Store.Book(ctx, id, r.rival); err != nil {
		return nil, err
	}
	return s, nil
}

func TestExecute_LostRaceIsSlotTaken(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-10", "09:00", nil)
	uc := newUseCase(&racingRepo{Store: store, rival: "user-2"}, nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	assert.ErrorIs(t, err, book_slot.ErrSlotTaken)

	stored, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsOwnedBy("user-2"))
}

// blindDayRepo не видит существующих броней, как конкурентная транзакция до коммита соседа
type blindDayRepo struct {
	*memstore.Store
}

func (r *blindDayRepo) HasBookingOnDate(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func TestExecute_OwnerDayConflictOnWrite(t *testing.T) {
	store := memstore.New()
	user := "user-1"
	putSlot(store, "2025-01-10", "09:00", &user)
	id := putSlot(store, "2025-01-10", "10:00", nil)
	uc := newUseCase(&blindDayRepo{Store: store}, nil)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: user})

	assert.ErrorIs(t, err, book_slot.ErrDuplicateBookingSameDay)
}

func TestExecute_ConcurrentBookersSingleWinner(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-10", "09:00", nil)
	uc := newUseCase(store, nil)

	const bookers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		others    []error
	)

	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: fmt.Sprintf("user-%d", i)})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			others = append(others, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, others, bookers-1)
	for _, err := range others {
		assert.True(t,
			errors.Is(err, book_slot.ErrAlreadyBooked) || errors.Is(err, book_slot.ErrSlotTaken),
			"unexpected error: %v", err)
	}
}

func TestExecute_ConcurrentSameUserSameDay(t *testing.T) {
	store := memstore.New()
	ids := []string{
		putSlot(store, "2025-01-10", "09:00", nil),
		putSlot(store, "2025-01-10", "10:00", nil),
		putSlot(store, "2025-01-10", "11:00", nil),
		putSlot(store, "2025-01-10", "12:00", nil),
	}
	uc := newUseCase(store, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.ErrorIs(t, err, book_slot.ErrDuplicateBookingSameDay)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	booked, err := store.ListBookedByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestExecute_StorageFailure(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-10", "09:00", nil)
	store.FailWith(errors.New("connection reset"))
	m := &resultMetrics{}
	uc := newUseCase(store, m)

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	assert.ErrorIs(t, err, book_slot.ErrInternal)
	assert.Equal(t, 1, m.results[metrics.ResultError])
}

type failingTx struct{}

func (failingTx) Do(context.Context, func(ctx context.Context) error) error {
	return errors.New("txmanager: failed to begin transaction")
}

func TestExecute_TransactionFailure(t *testing.T) {
	store := memstore.New()
	id := putSlot(store, "2025-01-10", "09:00", nil)
	uc := book_slot.NewUseCase(store, failingTx{}, nil, time.UTC, testutil.NopLogger{}).
		WithTimeProvider(testutil.NewClock(now))

	_, err := uc.Execute(context.Background(), &book_slot.Request{SlotID: id, UserID: "user-1"})

	assert.ErrorIs(t, err, book_slot.ErrInternal)
}
