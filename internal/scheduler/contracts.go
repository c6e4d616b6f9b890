package scheduler

import (
	"context"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// RecurringRepository интерфейс репозитория шаблонов повторяющихся бронирований
type RecurringRepository interface {
	GetDue(ctx context.Context, date time.Time) ([]*domain.RecurringBooking, error)
	UpdateNextDueDate(ctx context.Context, id int64, nextDueDate time.Time) error
	Deactivate(ctx context.Context, id int64) error
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceType, error)
}

// DraftRepository интерфейс репозитория черновиков
type DraftRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NotifyClient интерфейс клиента для NotifyService
type NotifyClient interface {
	SendBookingConfirmation(ctx context.Context, n *notifyservice.BookingNotification) error
	SendBookingReminder(ctx context.Context, n *notifyservice.BookingNotification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
