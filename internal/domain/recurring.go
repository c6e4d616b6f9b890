package domain

import (
	"fmt"
	"time"

	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// FrequencyType тип периодичности повторяющегося бронирования
type FrequencyType string

const (
	FrequencyDays   FrequencyType = "days"
	FrequencyWeeks  FrequencyType = "weeks"
	FrequencyMonths FrequencyType = "months"
)

// ParseFrequencyType валидирует строку периодичности
func ParseFrequencyType(s string) (FrequencyType, error) {
	switch FrequencyType(s) {
	case FrequencyDays, FrequencyWeeks, FrequencyMonths:
		return FrequencyType(s), nil
	default:
		return "", fmt.Errorf("unknown frequency type: %q", s)
	}
}

// RecurringBooking шаблон повторяющегося бронирования.
// Планировщик периодически порождает из него обычные Booking.
type RecurringBooking struct {
	ID         int64
	CustomerID int64
	ServiceID  int64

	FrequencyValue int           // Интервал (например, 2)
	FrequencyType  FrequencyType // Единица интервала (days/weeks/months)

	StartTime   types.TimeString // Предпочтительное время начала
	StartDate   time.Time
	NextDueDate time.Time
	IsActive    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
