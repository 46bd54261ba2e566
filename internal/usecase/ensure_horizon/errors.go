package ensure_horizon

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("ensure_horizon: internal error")
)
