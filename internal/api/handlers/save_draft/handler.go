package save_draft

import (
	"errors"
	"net/http"

	"github.com/amrteam/AMR-BookingService/internal/api/handlers"
	"github.com/amrteam/AMR-BookingService/internal/api/middleware"
	"github.com/amrteam/AMR-BookingService/internal/service/drafts"
	"github.com/amrteam/AMR-BookingService/internal/service/drafts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidDraft       = "некорректные данные черновика"
)

type Handler struct {
	service DraftService
	logger  Logger
}

func NewHandler(service DraftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/drafts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.SaveDraftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /drafts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CustomerID = customerID

	result, err := h.service.Save(r.Context(), &req)
	if err != nil {
		if errors.Is(err, drafts.ErrInvalidInput) {
			h.logger.Warn("PUT /drafts - Invalid draft: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidDraft)
			return
		}
		h.logger.Error("PUT /drafts - Failed to save draft: customer_id=%d, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /drafts - Draft saved: token=%s, customer_id=%d", result.Token, customerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
