package drafts

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или истек
	ErrDraftNotFound = errors.New("draft not found")

	// ErrAccessDenied возвращается при попытке прочитать чужой черновик
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
