package domain

import (
	"time"

	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// BookingDraft промежуточное состояние бронирования, собираемого по шагам
// мастера (услуга -> дата -> время -> контакты). Хранится на сервере по
// uuid-токену с TTL вместо неявного состояния сессии; поля заполняются
// по мере прохождения шагов, поэтому опциональны.
type BookingDraft struct {
	Token      string
	CustomerID int64

	ServiceID *int64
	Date      *time.Time
	StartTime *types.TimeString

	CustomDescription *string

	IsRecurring    bool
	FrequencyValue *int
	FrequencyType  *FrequencyType

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired проверяет, истек ли срок жизни черновика
func (d *BookingDraft) IsExpired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}
