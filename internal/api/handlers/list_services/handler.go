package list_services

import (
	"errors"
	"net/http"

	"github.com/amrteam/AMR-BookingService/internal/api/handlers"
	"github.com/amrteam/AMR-BookingService/internal/service/catalog"
)

const (
	msgInvalidCategory = "некорректная категория услуг"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var categoryPtr *string
	if category := r.URL.Query().Get("category"); category != "" {
		categoryPtr = &category
	}

	result, err := h.service.List(r.Context(), categoryPtr)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("GET /services - Invalid category: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCategory)
			return
		}
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services - Services retrieved successfully: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
