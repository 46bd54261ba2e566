package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotExists возвращается при нарушении уникальности (date, start_time)
	ErrSlotExists = errors.New("slot.repository: slot with this date and start time already exists")

	// ErrSlotNotAvailable возвращается, когда условное обновление брони не затронуло ни одной строки
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrOwnerDayConflict возвращается, когда у владельца уже есть бронь на эту дату
	ErrOwnerDayConflict = errors.New("slot.repository: owner already has a booking on this date")

	// ErrSlotNotBooked возвращается, когда условное освобождение слота не затронуло ни одной строки
	ErrSlotNotBooked = errors.New("slot.repository: slot is not booked by this owner")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
