package get_available_slots

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища или генератора слотов
	ErrInternal = errors.New("get_available_slots: internal error")
)
