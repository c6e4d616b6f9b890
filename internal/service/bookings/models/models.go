package models

import (
	"errors"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований клиента
type GetUserBookingsRequest struct {
	CustomerID  int64   `json:"customerId"`
	RequesterID int64   `json:"-"`
	IsAdmin     bool    `json:"-"`
	Status      *string `json:"status,omitempty"`
}

// GetAdminBookingsRequest запрос на получение бронирований для админ-панели
type GetAdminBookingsRequest struct {
	Status          *string    `json:"status,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAdminBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		Date:            r.Date,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// Явный фильтр по статусу перекрывает фильтр активности
		filter.IncludeInactive = true
	}

	return filter, nil
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
	ServiceID  int64 `json:"serviceId"`

	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:30"
	Status      string `json:"status"`

	CustomerName      string  `json:"customerName"`
	CustomerEmail     string  `json:"customerEmail"`
	CustomerPhone     string  `json:"customerPhone"`
	ServiceAddress    string  `json:"serviceAddress"`
	ServiceName       string  `json:"serviceName"`
	ServiceCategory   string  `json:"serviceCategory"`
	CustomDescription *string `json:"customDescription,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                b.ID,
		CustomerID:        b.CustomerID,
		ServiceID:         b.ServiceID,
		BookingDate:       b.BookingDate.Format(domain.DateFormat),
		StartTime:         string(b.StartTime),
		EndTime:           string(b.EndTime),
		Status:            string(b.Status),
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		ServiceAddress:    b.ServiceAddress,
		ServiceName:       b.ServiceName,
		ServiceCategory:   string(b.ServiceCategory),
		CustomDescription: b.CustomDescription,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: out, Total: len(out)}
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status, err := domain.ParseBookingStatus(s)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return status, nil
}
