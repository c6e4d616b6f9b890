package models

import (
	"fmt"

	"github.com/amrteam/AMR-BookingService/internal/domain"
)

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	DurationHours   float64 `json:"durationHours"`
	DisplayDuration string  `json:"displayDuration"` // "1.5 hours" или "Varies" для кастомных
	IsCustom        bool    `json:"isCustom"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []*ServiceResponse `json:"services"`
	Total    int                `json:"total"`
}

// ScheduleConfigResponse публичные параметры расписания
type ScheduleConfigResponse struct {
	OpenTime               string `json:"openTime"`  // "06:00"
	CloseTime              string `json:"closeTime"` // "20:00"
	SlotGranularityMinutes int    `json:"slotGranularityMinutes"`
	MinLeadTimeMinutes     int    `json:"minLeadTimeMinutes"`
}

// FromDomainService конвертирует domain модель в response
func FromDomainService(s *domain.ServiceType) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Category:        string(s.Category),
		Description:     s.Description,
		DurationHours:   s.DurationHours,
		DisplayDuration: displayDuration(s),
		IsCustom:        s.IsCustom,
	}
}

// FromDomainServiceList конвертирует список domain моделей в response
func FromDomainServiceList(services []*domain.ServiceType) *ServiceListResponse {
	out := make([]*ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, FromDomainService(s))
	}
	return &ServiceListResponse{Services: out, Total: len(out)}
}

// FromDomainSchedule конвертирует параметры расписания в response
func FromDomainSchedule(sched domain.ScheduleConfig) *ScheduleConfigResponse {
	return &ScheduleConfigResponse{
		OpenTime:               string(sched.OpenTime),
		CloseTime:              string(sched.CloseTime),
		SlotGranularityMinutes: sched.SlotGranularityMinutes,
		MinLeadTimeMinutes:     sched.MinLeadTimeMinutes,
	}
}

// displayDuration человекочитаемая длительность для витрины.
// У кастомных услуг фактическая длительность определяется после оценки работ.
func displayDuration(s *domain.ServiceType) string {
	if s.IsCustom {
		return "Varies"
	}
	if s.DurationHours == 1.0 {
		return "1 hour"
	}
	return fmt.Sprintf("%g hours", s.DurationHours)
}
