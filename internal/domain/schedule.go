package domain

import "github.com/amrteam/AMR-BookingService/pkg/types"

// ScheduleConfig рабочие часы и параметры сетки слотов.
// Конфигурационный вход движка доступности, не зашитые константы.
type ScheduleConfig struct {
	OpenTime               types.TimeString // Начало рабочего дня
	CloseTime              types.TimeString // Конец рабочего дня (услуга должна завершиться до него)
	SlotGranularityMinutes int              // Шаг сетки слотов
	MinLeadTimeMinutes     int              // Минимальный запас до начала слота в день бронирования
}

// DefaultScheduleConfig возвращает конфигурацию по умолчанию:
// 06:00-20:00, слоты по 30 минут, запас 2 часа.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		OpenTime:               types.TimeString(DefaultOpenTime),
		CloseTime:              types.TimeString(DefaultCloseTime),
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		MinLeadTimeMinutes:     DefaultMinLeadTimeMinutes,
	}
}
