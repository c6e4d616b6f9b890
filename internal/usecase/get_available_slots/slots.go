package get_available_slots

import (
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// ComputeAvailableSlots вычисляет доступные времена начала для даты.
// Чистая функция от своих входов: не читает часы, не кэширует, может
// вызываться конкурентно без координации.
//
// blockingMinutes - ширина интервала для проверки пересечений (для кастомных
// услуг это фиксированный часовой буфер, а не номинальная длительность).
//
// Пустой результат - валидный ответ "свободных слотов нет", не ошибка.
func ComputeAvailableSlots(
	requestDate time.Time,
	blockingMinutes int,
	bookings []*domain.Booking,
	now time.Time,
	sched domain.ScheduleConfig,
) ([]types.TimeString, error) {
	// Дата в прошлом - бронировать нечего
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	earliest, ok, err := earliestStartTime(requestDate, now, sched)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Минимальный запас уводит за пределы суток - на сегодня слотов нет
		return []types.TimeString{}, nil
	}

	available := make([]types.TimeString, 0)

	for current := earliest; current.IsBefore(sched.CloseTime); {
		slotEnd, err := current.AddMinutes(blockingMinutes)
		if err != nil {
			// Конец слота за пределами суток - дальше только позже
			break
		}

		// Услуга должна завершиться до конца рабочего дня
		if slotEnd.IsAfter(sched.CloseTime) {
			break
		}

		if !overlapsAnyBooking(current, slotEnd, bookings) {
			available = append(available, current)
		}

		current, err = current.AddMinutes(sched.SlotGranularityMinutes)
		if err != nil {
			break
		}
	}

	return available, nil
}

// earliestStartTime определяет самое раннее допустимое время начала слота.
//
// Для сегодняшней даты: now + минимальный запас, затем потолочное округление
// до границы сетки (ceiling, не floor - клиент никогда не получит слот,
// который уже фактически начался или попадает в окно запаса), затем подъем
// до начала рабочего дня.
//
// Для будущих дат запас не применяется - начало рабочего дня.
func earliestStartTime(requestDate, now time.Time, sched domain.ScheduleConfig) (types.TimeString, bool, error) {
	if !isSameDay(requestDate, now) {
		return sched.OpenTime, true, nil
	}

	minBookingTime := now.Add(time.Duration(sched.MinLeadTimeMinutes) * time.Minute)

	// Запас перевалил за полночь - сегодня уже ничего не забронировать
	if !isSameDay(minBookingTime, now) {
		return "", false, nil
	}

	rounded, ok := ceilToGranularity(minBookingTime, sched.SlotGranularityMinutes)
	if !ok {
		return "", false, nil
	}

	// Не раньше начала рабочего дня
	if rounded.IsBefore(sched.OpenTime) {
		return sched.OpenTime, true, nil
	}

	return rounded, true, nil
}

// ceilToGranularity округляет время вверх до границы сетки слотов.
// Для 30-минутной сетки: минута 0 - без округления, минута (0, 30] - до
// :30 того же часа, минута > 30 - до :00 следующего часа.
// ok=false, если результат выходит за пределы суток.
func ceilToGranularity(t time.Time, granularityMinutes int) (types.TimeString, bool) {
	minutes := t.Hour()*60 + t.Minute()

	if rem := minutes % granularityMinutes; rem != 0 {
		minutes += granularityMinutes - rem
	}

	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return "", false
	}
	return ts, true
}

// overlapsAnyBooking проверяет пересечение кандидата [slotStart, slotEnd)
// с активными бронированиями. Интервалы полуоткрытые: бронирование,
// заканчивающееся ровно в начале слота (или наоборот), НЕ пересечение.
//
// Примеры:
// - Слот 11:30-12:00, бронирование 11:20-11:40 → ЕСТЬ пересечение
// - Слот 11:30-12:00, бронирование 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, бронирование 12:00-12:30 → НЕТ пересечения (граничат)
func overlapsAnyBooking(slotStart, slotEnd types.TimeString, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		// Завершенные и отмененные бронирования не ограничивают доступность
		if !booking.IsActive() {
			continue
		}

		// Строгие неравенства, граничные случаи не считаются пересечением
		if slotStart.IsBefore(booking.EndTime) && slotEnd.IsAfter(booking.StartTime) {
			return true
		}
	}
	return false
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
