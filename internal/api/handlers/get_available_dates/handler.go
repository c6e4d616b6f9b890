package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amrteam/AMR-BookingService/internal/api/handlers"
	getAvailableDates "github.com/amrteam/AMR-BookingService/internal/usecase/get_available_dates"
)

const (
	msgInvalidYearMonth = "некорректные параметры year и month"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-dates?year=2025&month=10
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	year, yearErr := strconv.Atoi(r.URL.Query().Get("year"))
	month, monthErr := strconv.Atoi(r.URL.Query().Get("month"))
	if yearErr != nil || monthErr != nil {
		h.logger.Warn("GET /available-dates - Invalid year/month: year=%q, month=%q",
			r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableDates.Request{
		Year:  year,
		Month: month,
	})
	if err != nil {
		if errors.Is(err, getAvailableDates.ErrInvalidInput) {
			h.logger.Warn("GET /available-dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYearMonth)
			return
		}
		h.logger.Error("GET /available-dates - Failed to get dates: year=%d, month=%d, error=%v",
			year, month, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /available-dates - Dates retrieved: year=%d, month=%d", year, month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
