package create_booking

import (
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	createBooking "github.com/amrteam/AMR-BookingService/internal/usecase/create_booking"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID   int64  `json:"serviceId"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"

	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerPhone  string `json:"customerPhone"`
	ServiceAddress string `json:"serviceAddress"`

	CustomDescription *string `json:"customDescription,omitempty"`

	Recurring *RecurringRequest `json:"recurring,omitempty"`
}

// RecurringRequest параметры повторяющегося бронирования
type RecurringRequest struct {
	FrequencyValue int    `json:"frequencyValue"`
	FrequencyType  string `json:"frequencyType"` // days / weeks / months
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
	ServiceID  int64 `json:"serviceId"`

	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`

	CustomerName      string  `json:"customerName"`
	CustomerEmail     string  `json:"customerEmail"`
	CustomerPhone     string  `json:"customerPhone"`
	ServiceAddress    string  `json:"serviceAddress"`
	ServiceName       string  `json:"serviceName"`
	ServiceCategory   string  `json:"serviceCategory"`
	CustomDescription *string `json:"customDescription,omitempty"`

	RecurringID *int64 `json:"recurringId,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		CustomerID:        customerID,
		ServiceID:         r.ServiceID,
		Date:              bookingDate,
		StartTime:         startTime,
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		CustomerPhone:     r.CustomerPhone,
		ServiceAddress:    r.ServiceAddress,
		CustomDescription: r.CustomDescription,
	}

	if r.Recurring != nil {
		req.Recurring = &createBooking.RecurringRequest{
			FrequencyValue: r.Recurring.FrequencyValue,
			FrequencyType:  r.Recurring.FrequencyType,
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		CustomerID:        resp.CustomerID,
		ServiceID:         resp.ServiceID,
		BookingDate:       resp.BookingDate.Format(domain.DateFormat),
		StartTime:         string(resp.StartTime),
		EndTime:           string(resp.EndTime),
		Status:            resp.Status,
		CustomerName:      resp.CustomerName,
		CustomerEmail:     resp.CustomerEmail,
		CustomerPhone:     resp.CustomerPhone,
		ServiceAddress:    resp.ServiceAddress,
		ServiceName:       resp.ServiceName,
		ServiceCategory:   resp.ServiceCategory,
		CustomDescription: resp.CustomDescription,
		RecurringID:       resp.RecurringID,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
