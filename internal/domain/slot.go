package domain

import (
	"time"

	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// AvailableSlot represents a time slot available for booking
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int // Номинальная длительность выбранной услуги
}

// DayAvailability доступность одной даты для месячного календаря
type DayAvailability struct {
	Date      time.Time
	Available bool
}
