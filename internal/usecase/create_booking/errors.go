package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования (прошлое, нулевая дата)
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrOutsideBusinessHours возвращается, когда слот выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("create_booking: slot is outside business hours")

	// ErrTooLateToBook возвращается, когда бронирование нарушает минимальное время упреждения
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotConflict возвращается, когда выбранный слот пересекается с существующим бронированием
	ErrSlotConflict = errors.New("create_booking: slot conflicts with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
