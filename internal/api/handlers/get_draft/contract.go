package get_draft

import (
	"context"

	"github.com/amrteam/AMR-BookingService/internal/service/drafts/models"
)

type DraftService interface {
	Get(ctx context.Context, token string, customerID int64) (*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
