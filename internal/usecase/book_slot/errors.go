package book_slot

import "errors"

var (
	// ErrNotFound возвращается, когда слот не найден
	ErrNotFound = errors.New("book_slot: slot not found")

	// ErrAlreadyBooked возвращается, когда слот уже забронирован на момент чтения
	ErrAlreadyBooked = errors.New("book_slot: slot is already booked")

	// ErrSlotInPast возвращается, когда начало слота не позже текущего момента
	ErrSlotInPast = errors.New("book_slot: slot is in the past")

	// ErrDuplicateBookingSameDay возвращается, когда у пользователя уже есть бронь на эту дату
	ErrDuplicateBookingSameDay = errors.New("book_slot: user already has a booking on this date")

	// ErrSlotTaken возвращается, когда условное обновление проиграло конкурентной брони
	ErrSlotTaken = errors.New("book_slot: slot was taken concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при ошибках хранилища и транзакции
	ErrInternal = errors.New("book_slot: internal error")
)

// isBusinessError ошибки, которые являются ожидаемым отказом, а не сбоем
func isBusinessError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyBooked) ||
		errors.Is(err, ErrSlotInPast) ||
		errors.Is(err, ErrDuplicateBookingSameDay) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrInvalidInput)
}
