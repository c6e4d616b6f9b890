package catalog

import (
	"context"

	"github.com/amrteam/AMR-BookingService/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceType, error)
	GetActive(ctx context.Context, category *domain.ServiceCategory) ([]*domain.ServiceType, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
