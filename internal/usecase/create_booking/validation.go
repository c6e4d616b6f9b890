package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := validateContact(req); err != nil {
		return err
	}

	if req.Recurring != nil {
		if err := validateRecurring(req.Recurring); err != nil {
			return err
		}
	}

	return nil
}

// validateContact проверяет контактные данные клиента
func validateContact(req *Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	// Минимальная проверка формата, полная верификация на стороне почтового сервиса
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return fmt.Errorf("%w: invalid customerEmail format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceAddress) == "" {
		return fmt.Errorf("%w: serviceAddress is required", ErrInvalidInput)
	}

	return nil
}

// validateRecurring проверяет параметры повторяющегося бронирования
func validateRecurring(rec *RecurringRequest) error {
	if rec.FrequencyValue <= 0 {
		return fmt.Errorf("%w: frequencyValue must be positive", ErrInvalidInput)
	}

	if _, err := domain.ParseFrequencyType(rec.FrequencyType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateService проверяет, что услуга подходит для бронирования,
// и что для кастомной услуги передано описание работ
func validateService(svc *domain.ServiceType, req *Request) error {
	if svc.DurationHours <= 0 {
		return fmt.Errorf("%w: service has no duration configured", ErrServiceNotFound)
	}

	if svc.IsCustom {
		if req.CustomDescription == nil || strings.TrimSpace(*req.CustomDescription) == "" {
			return fmt.Errorf("%w: customDescription is required for custom services", ErrInvalidInput)
		}
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateSlotWithinHours проверяет выравнивание по сетке слотов и рабочие часы.
// Возвращает конец блокируемого окна (для кастомных услуг это фиксированный буфер,
// а не полная номинальная длительность).
func validateSlotWithinHours(
	startTime types.TimeString,
	blockingMinutes int,
	sched domain.ScheduleConfig,
) (types.TimeString, error) {
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return "", fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	// Начало должно лежать на сетке слотов
	if startMinutes%sched.SlotGranularityMinutes != 0 {
		return "", fmt.Errorf("%w: startTime must be aligned to %d-minute grid",
			ErrInvalidInput, sched.SlotGranularityMinutes)
	}

	if startTime.IsBefore(sched.OpenTime) {
		return "", ErrOutsideBusinessHours
	}

	blockEnd, err := startTime.AddMinutes(blockingMinutes)
	if err != nil {
		// Переполнение за полночь, заведомо за пределами рабочих часов
		return "", ErrOutsideBusinessHours
	}

	if blockEnd.IsAfter(sched.CloseTime) {
		return "", ErrOutsideBusinessHours
	}

	return blockEnd, nil
}

// validateLeadTime проверяет минимальное время упреждения для бронирований на сегодня
func validateLeadTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minLeadTimeMinutes int,
) error {
	// Для будущих дат проверка не нужна
	if !isSameDay(bookingDate, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minLeadTimeMinutes)
	if err != nil {
		// Минимально допустимое время за полночь, сегодня бронировать уже поздно
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minLeadTimeMinutes)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minLeadTimeMinutes)
	}

	return nil
}

// findConflictingBooking ищет активное бронирование, пересекающееся со слотом.
// Пересечение проверяется по полуоткрытым интервалам: start < b.End && end > b.Start.
func findConflictingBooking(
	slotStart, slotEnd types.TimeString,
	bookings []*domain.Booking,
) *domain.Booking {
	for _, booking := range bookings {
		// Неактивные бронирования не занимают слот
		if !booking.IsActive() {
			continue
		}

		if booking.StartTime.IsBefore(slotEnd) && booking.EndTime.IsAfter(slotStart) {
			return booking
		}
	}
	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
