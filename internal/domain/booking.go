package domain

import (
	"fmt"
	"time"

	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a committed or pending reservation
type Booking struct {
	ID         int64
	ServiceID  int64
	CustomerID int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString // StartTime + номинальная длительность услуги, вычисляется один раз при создании
	Status      BookingStatus

	// Контактные данные клиента (денормализованы из формы бронирования)
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	ServiceAddress string

	// Denormalized data for history
	ServiceName     string
	ServiceCategory ServiceCategory

	// CustomDescription заполняется только для кастомных услуг
	CustomDescription *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking constrains availability
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DurationMinutes возвращает номинальную длительность бронирования в минутах
func (b *Booking) DurationMinutes() int {
	minutes, err := b.StartTime.MinutesBetween(b.EndTime)
	if err != nil {
		return 0
	}
	return minutes
}

// ParseBookingStatus валидирует строку статуса.
// Переходы между статусами намеренно не ограничены таблицей переходов -
// админ может выставить любой статус (унаследованная бизнес-политика).
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	Date            *time.Time     // Конкретная дата (для расчета доступности и блокировки FOR UPDATE)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	CustomerID      *int64         // Фильтр по клиенту (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неактивные бронирования (completed, cancelled)
}
