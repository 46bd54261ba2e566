package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	tableSlots = "slots"

	constraintDateStartTime = "slots_date_start_time_key"
	constraintOwnerDay      = "slots_owner_day_booked_key"

	pqUniqueViolation = "23505"
)

var slotColumns = []string{
	"id",
	"slot_date",
	"start_time",
	"end_time",
	"owner_id",
	"status",
	"created_at",
	"updated_at",
}

const returningColumns = "RETURNING id, slot_date, start_time, end_time, owner_id, status, created_at, updated_at"

// Repository репозиторий для работы со слотами
// Слоты никогда не удаляются, поэтому метода Delete нет
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает один слот
// Дубликат (date, start_time) отклоняется ограничением уникальности в БД
func (r *Repository) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSlots).
		Columns("id", "slot_date", "start_time", "end_time", "owner_id", "status").
		Values(s.ID, s.DateString(), s.StartTime, s.EndTime, s.OwnerID, s.Status).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err, constraintDateStartTime) {
			return nil, ErrSlotExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// InsertMany вставляет пачку слотов одним запросом
// Уже существующие (date, start_time) пропускаются через ON CONFLICT DO NOTHING,
// остальные строки вставляются. Возвращает количество реально вставленных слотов
func (r *Repository) InsertMany(ctx context.Context, slots []*domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableSlots).
		Columns("id", "slot_date", "start_time", "end_time", "status")
	for _, s := range slots {
		insert = insert.Values(s.ID, s.DateString(), s.StartTime, s.EndTime, s.Status)
	}

	query, args, err := insert.
		Suffix("ON CONFLICT (slot_date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetExistingKeys возвращает множество ключей (date, start_time) слотов в диапазоне дат включительно
func (r *Repository) GetExistingKeys(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "start_time").
		From(tableSlots).
		Where(squirrel.GtOrEq{"slot_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"slot_date": to.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExistingKeys - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExistingKeys - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var (
			date      time.Time
			startTime types.TimeString
		)
		if err := rows.Scan(&date, &startTime); err != nil {
			return nil, fmt.Errorf("%w: GetExistingKeys - scan key: %v", ErrScanRow, err)
		}
		keys[domain.SlotKey(date, startTime)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExistingKeys - rows error: %v", ErrScanRow, err)
	}

	return keys, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы конкурентная бронь
// ждала завершения текущей
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListAvailable возвращает свободные слоты, начало которых строго позже (today, nowTime),
// отсортированные по дате и времени начала
func (r *Repository) ListAvailable(ctx context.Context, today time.Time, nowTime types.TimeString) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	todayStr := today.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"status": domain.StatusAvailable}).
		Where(squirrel.Or{
			squirrel.Gt{"slot_date": todayStr},
			squirrel.And{
				squirrel.Eq{"slot_date": todayStr},
				squirrel.Gt{"start_time": nowTime},
			},
		}).
		OrderBy("slot_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListBookedByOwner возвращает слоты, забронированные владельцем, по возрастанию даты и времени
func (r *Repository) ListBookedByOwner(ctx context.Context, ownerID string) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"owner_id": ownerID, "status": domain.StatusBooked}).
		OrderBy("slot_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// HasBookingOnDate проверяет, есть ли у владельца забронированный слот на дату
func (r *Repository) HasBookingOnDate(ctx context.Context, ownerID string, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableSlots).
		Where(squirrel.Eq{
			"owner_id":  ownerID,
			"slot_date": date.Format(domain.DateFormat),
			"status":    domain.StatusBooked,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasBookingOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasBookingOnDate - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// Book условно назначает владельца свободному слоту
// UPDATE ... WHERE id = ? AND status = 'available' является единственным арбитром гонки:
// из двух конкурентных вызовов строку обновит только один
func (r *Repository) Book(ctx context.Context, id string, ownerID string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlots).
		Set("owner_id", ownerID).
		Set("status", domain.StatusBooked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusAvailable}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Book - build update query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotAvailable
	}
	if err != nil {
		if isUniqueViolation(err, constraintOwnerDay) {
			return nil, ErrOwnerDayConflict
		}
		return nil, fmt.Errorf("%w: Book - execute update: %v", ErrExecQuery, err)
	}

	return s, nil
}

// Release возвращает слот в статус available
// Условие id + owner_id + status = 'booked' защищает от повторной конкурентной отмены
func (r *Repository) Release(ctx context.Context, id string, ownerID string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlots).
		Set("owner_id", nil).
		Set("status", domain.StatusAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID, "status": domain.StatusBooked}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotBooked
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSlot сканирует одну строку в слот
// sql.ErrNoRows и ошибки драйвера возвращаются как есть, чтобы вызывающий мог их различить
func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		s                    domain.Slot
		ownerID              sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&ownerID,
		&s.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		s.OwnerID = ptr.Ptr(ownerID.String)
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraint
}
