package models

import (
	"errors"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

var (
	// ErrInvalidFrequency возвращается при некорректной периодичности
	ErrInvalidFrequency = errors.New("invalid frequency type")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date format")
)

// SaveDraftRequest запрос на сохранение черновика.
// Token пустой при создании нового черновика.
type SaveDraftRequest struct {
	Token      string `json:"token,omitempty"`
	CustomerID int64  `json:"-"`

	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`      // YYYY-MM-DD
	StartTime *string `json:"startTime,omitempty"` // HH:MM

	CustomDescription *string `json:"customDescription,omitempty"`

	IsRecurring    bool    `json:"isRecurring,omitempty"`
	FrequencyValue *int    `json:"frequencyValue,omitempty"`
	FrequencyType  *string `json:"frequencyType,omitempty"`
}

// ToDomainDraft конвертирует request в domain модель (без Token и ExpiresAt)
func (r *SaveDraftRequest) ToDomainDraft() (*domain.BookingDraft, error) {
	draft := &domain.BookingDraft{
		CustomerID:        r.CustomerID,
		ServiceID:         r.ServiceID,
		CustomDescription: r.CustomDescription,
		IsRecurring:       r.IsRecurring,
		FrequencyValue:    r.FrequencyValue,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		draft.Date = &date
	}

	if r.StartTime != nil {
		st, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		draft.StartTime = &st
	}

	if r.FrequencyType != nil {
		freq, err := domain.ParseFrequencyType(*r.FrequencyType)
		if err != nil {
			return nil, ErrInvalidFrequency
		}
		draft.FrequencyType = &freq
	}

	return draft, nil
}

// DraftResponse ответ с данными черновика
type DraftResponse struct {
	Token      string `json:"token"`
	CustomerID int64  `json:"customerId"`

	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`

	CustomDescription *string `json:"customDescription,omitempty"`

	IsRecurring    bool    `json:"isRecurring"`
	FrequencyValue *int    `json:"frequencyValue,omitempty"`
	FrequencyType  *string `json:"frequencyType,omitempty"`

	ExpiresAt time.Time `json:"expiresAt"`
}

// FromDomainDraft конвертирует domain модель в response
func FromDomainDraft(d *domain.BookingDraft) *DraftResponse {
	resp := &DraftResponse{
		Token:             d.Token,
		CustomerID:        d.CustomerID,
		ServiceID:         d.ServiceID,
		CustomDescription: d.CustomDescription,
		IsRecurring:       d.IsRecurring,
		FrequencyValue:    d.FrequencyValue,
		ExpiresAt:         d.ExpiresAt,
	}

	if d.Date != nil {
		date := d.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	if d.StartTime != nil {
		st := string(*d.StartTime)
		resp.StartTime = &st
	}
	if d.FrequencyType != nil {
		freq := string(*d.FrequencyType)
		resp.FrequencyType = &freq
	}

	return resp
}
