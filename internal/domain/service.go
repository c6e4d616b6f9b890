package domain

import (
	"fmt"
	"math"
	"time"
)

// ServiceCategory группа услуг для выбора на первом шаге
type ServiceCategory string

const (
	CategoryLandscaping     ServiceCategory = "landscaping"
	CategoryPressureWashing ServiceCategory = "pressure_washing"
)

// ParseServiceCategory валидирует строку категории
func ParseServiceCategory(s string) (ServiceCategory, error) {
	switch ServiceCategory(s) {
	case CategoryLandscaping, CategoryPressureWashing:
		return ServiceCategory(s), nil
	default:
		return "", fmt.Errorf("unknown service category: %q", s)
	}
}

// ServiceType услуга, доступная для бронирования.
// У каждой услуги есть категория (landscaping/pressure_washing) и длительность.
type ServiceType struct {
	ID            int64
	Name          string
	Category      ServiceCategory
	Description   string
	DurationHours float64 // Длительность в часах, дробная (например, 1.5)
	IsCustom      bool    // Кастомные услуги: реальную длительность назначает админ позже
	IsActive      bool    // Неактивные услуги не предлагаются для новых бронирований

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes возвращает номинальную длительность услуги в минутах
func (s *ServiceType) DurationMinutes() int {
	return int(math.Round(s.DurationHours * 60))
}

// BlockingMinutes возвращает длительность, используемую для проверки пересечений.
// Кастомные услуги резервируют фиксированный часовой буфер вместо номинальной
// длительности: реальная длительность неизвестна до назначения админом,
// но слот в календаре все равно должен быть занят.
func (s *ServiceType) BlockingMinutes() int {
	if s.IsCustom {
		return CustomBlockingMinutes
	}
	return s.DurationMinutes()
}
