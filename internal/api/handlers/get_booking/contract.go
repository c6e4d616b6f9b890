package get_booking

import (
	"context"

	"github.com/amrteam/AMR-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id, requesterID int64, isAdmin bool) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
