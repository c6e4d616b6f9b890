package get_available_slots

import (
	"time"

	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги (определяет длительность и кастомный буфер)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	ServiceID int64     // ID услуги
	Slots     []Slot    // Список доступных слотов по возрастанию времени
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Номинальная длительность услуги в минутах
}
