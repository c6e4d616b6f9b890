package domain

// Default schedule configuration values
const (
	DefaultOpenTime               = "06:00"
	DefaultCloseTime              = "20:00"
	DefaultSlotGranularityMinutes = 30
	DefaultMinLeadTimeMinutes     = 120 // 2 hours
)

// Business policy constants
const (
	// CustomBlockingMinutes фиксированный буфер кастомной услуги в календаре
	CustomBlockingMinutes = 60

	// DateProbeDurationMinutes длительность-проба для проверки "есть ли на дате
	// хоть один слот" (1.5 часа - самая короткая стандартная услуга).
	// Приближение: дата может показаться доступной, хотя для более длинной
	// услуги слотов нет; реальная проверка повторяется для выбранной услуги.
	DateProbeDurationMinutes = 90
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, ограничивающих доступность слотов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы бронирований, не влияющих на доступность
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
