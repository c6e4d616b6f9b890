package create_booking

import (
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64            // ID клиента (из заголовка аутентификации)
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")

	// Контактные данные клиента
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	ServiceAddress string

	// Описание работ, обязательно для кастомных услуг
	CustomDescription *string

	// Параметры повторяющегося бронирования (опционально)
	Recurring *RecurringRequest
}

// RecurringRequest параметры шаблона повторяющегося бронирования
type RecurringRequest struct {
	FrequencyValue int    // Интервал (например, 2)
	FrequencyType  string // Единица интервала: days / weeks / months
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	CustomerID int64
	ServiceID  int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string

	// Денормализованные данные
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ServiceAddress    string
	ServiceName       string
	ServiceCategory   string
	CustomDescription *string

	// ID созданного шаблона повторяющегося бронирования (если запрошен)
	RecurringID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, recurringID *int64) *Response {
	return &Response{
		ID:                b.ID,
		CustomerID:        b.CustomerID,
		ServiceID:         b.ServiceID,
		BookingDate:       b.BookingDate,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            string(b.Status),
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		ServiceAddress:    b.ServiceAddress,
		ServiceName:       b.ServiceName,
		ServiceCategory:   string(b.ServiceCategory),
		CustomDescription: b.CustomDescription,
		RecurringID:       recurringID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
