package cancel_booking

import "errors"

var (
	// ErrNotFound возвращается, когда слот не найден
	ErrNotFound = errors.New("cancel_booking: slot not found")

	// ErrNotOwner возвращается, когда слот не принадлежит пользователю
	ErrNotOwner = errors.New("cancel_booking: slot is not owned by user")

	// ErrNotBooked возвращается, когда слот не забронирован (в том числе после конкурентной отмены)
	ErrNotBooked = errors.New("cancel_booking: slot is not booked")

	// ErrTooLateToCancel возвращается, когда до начала слота осталось меньше 24 часов
	ErrTooLateToCancel = errors.New("cancel_booking: too late to cancel")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("cancel_booking: internal error")
)

func isBusinessError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrNotBooked) ||
		errors.Is(err, ErrTooLateToCancel) ||
		errors.Is(err, ErrInvalidInput)
}
