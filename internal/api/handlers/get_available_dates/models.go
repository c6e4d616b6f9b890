package get_available_dates

import (
	getAvailableDates "github.com/amrteam/AMR-BookingService/internal/usecase/get_available_dates"
)

// DatesResponse HTTP response model
type DatesResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}

// DayResponse доступность одного дня месяца
type DayResponse struct {
	Date      string `json:"date"` // "2025-10-15"
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *DatesResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayResponse{Date: d.Date, Available: d.Available})
	}
	return &DatesResponse{Year: resp.Year, Month: resp.Month, Days: days}
}
