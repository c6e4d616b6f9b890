package get_schedule_config

import (
	"context"

	"github.com/amrteam/AMR-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	GetScheduleConfig(ctx context.Context) *models.ScheduleConfigResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
