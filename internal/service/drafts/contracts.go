package drafts

import (
	"context"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
)

// DraftRepository интерфейс репозитория черновиков бронирований
type DraftRepository interface {
	Upsert(ctx context.Context, d *domain.BookingDraft) (*domain.BookingDraft, error)
	GetByToken(ctx context.Context, token string) (*domain.BookingDraft, error)
	Delete(ctx context.Context, token string) error
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
