package get_draft

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amrteam/AMR-BookingService/internal/api/handlers"
	"github.com/amrteam/AMR-BookingService/internal/api/middleware"
	"github.com/amrteam/AMR-BookingService/internal/service/drafts"
)

const (
	msgUnauthorized  = "требуется аутентификация"
	msgDraftNotFound = "черновик не найден или истек"
	msgAccessDenied  = "нет доступа к этому черновику"
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

// Handle GET /api/v1/drafts/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	token := mux.Vars(r)["token"]

	result, err := h.service.Get(r.Context(), token, customerID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("GET /drafts/{token} - Draft not found: token=%s", token)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrAccessDenied):
			h.logger.Warn("GET /drafts/{token} - Access denied: token=%s, customer_id=%d", token, customerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, drafts.ErrInvalidInput):
			h.logger.Warn("GET /drafts/{token} - Invalid token: %v", err)
			handlers.RespondNotFound(w, msgDraftNotFound)

		default:
			h.logger.Error("GET /drafts/{token} - Failed to get draft: token=%s, error=%v", token, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /drafts/{token} - Draft retrieved: token=%s", token)
	handlers.RespondJSON(w, http.StatusOK, result)
}
