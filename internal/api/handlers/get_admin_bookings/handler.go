package get_admin_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/api/handlers"
	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/internal/service/bookings"
	"github.com/amrteam/AMR-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?status=pending&date=2025-10-15
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.GetAdminBookingsRequest{
		// Админ-панель по умолчанию видит и завершенные, и отмененные
		IncludeInactive: true,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /admin/bookings - Invalid date %q: %v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if startStr := r.URL.Query().Get("startDate"); startStr != "" {
		start, err := time.Parse(domain.DateFormat, startStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &start
	}

	if endStr := r.URL.Query().Get("endDate"); endStr != "" {
		end, err := time.Parse(domain.DateFormat, endStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &end
	}

	result, err := h.service.GetAdminBookings(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed to get bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved successfully: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
