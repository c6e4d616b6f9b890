package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

func defaultSchedule() domain.ScheduleConfig {
	return domain.DefaultScheduleConfig()
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, value)
	require.NoError(t, err)
	return d
}

func mustDateTime(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02T15:04", value)
	require.NoError(t, err)
	return d
}

func activeBooking(start, end types.TimeString) *domain.Booking {
	return &domain.Booking{
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusConfirmed,
	}
}

func TestComputeAvailableSlots_PastDateAlwaysEmpty(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-02-29"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Пустой результат не зависит от остальных входов
	slots, err = ComputeAvailableSlots(
		mustDate(t, "2023-01-01"),
		30,
		[]*domain.Booking{activeBooking("10:00", "11:00")},
		now,
		defaultSchedule(),
	)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_FutureDateStartsAtOpen(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T18:45")

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("06:00"), slots[0])
}

func TestComputeAvailableSlots_SameDayLeadTimeRounding(t *testing.T) {
	tests := []struct {
		name      string
		now       string
		wantFirst types.TimeString
	}{
		{
			// 08:00 + 2h = 10:00, минута 0 - без округления
			name:      "minute zero not rounded",
			now:       "2024-03-01T08:00",
			wantFirst: "10:00",
		},
		{
			// 14:07 + 2h = 16:07, минута в (0, 30] - вверх до :30
			name:      "minute in (0,30] rounds to half hour",
			now:       "2024-03-01T14:07",
			wantFirst: "16:30",
		},
		{
			// 14:30 + 2h = 16:30, минута ровно 30 остается :30
			name:      "minute exactly 30 stays",
			now:       "2024-03-01T14:30",
			wantFirst: "16:30",
		},
		{
			// 14:45 + 2h = 16:45, минута > 30 - вверх до следующего часа
			name:      "minute above 30 rounds to next hour",
			now:       "2024-03-01T14:45",
			wantFirst: "17:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := mustDateTime(t, tt.now)

			slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-01"), 90, nil, now, defaultSchedule())
			require.NoError(t, err)

			require.NotEmpty(t, slots)
			assert.Equal(t, tt.wantFirst, slots[0])
		})
	}
}

func TestComputeAvailableSlots_LeadTimeClampedToOpen(t *testing.T) {
	// 02:00 + 2h = 04:00 - раньше открытия, поднимаем до 06:00
	now := mustDateTime(t, "2024-03-01T02:00")

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-01"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("06:00"), slots[0])
}

func TestComputeAvailableSlots_BusinessHoursContainment(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")
	sched := defaultSchedule()

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), 90, nil, now, sched)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// Ни один слот не может закончиться позже закрытия
	for _, slot := range slots {
		end, err := slot.AddMinutes(90)
		require.NoError(t, err)
		assert.False(t, end.IsAfter(sched.CloseTime), "slot %s ends after close", slot)
	}

	// Последний валидный слот для 1.5ч услуги: 18:30 + 1.5h = 20:00, впритык
	assert.Equal(t, types.TimeString("18:30"), slots[len(slots)-1])
}

func TestComputeAvailableSlots_EndToEndScenario(t *testing.T) {
	// Рабочие часы 06:00-20:00, шаг 30 минут, услуга 1.5ч, бронирований нет,
	// now = 2024-03-01 08:00, дата - сегодня
	now := mustDateTime(t, "2024-03-01T08:00")

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-01"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)

	// 10:00 .. 18:30 с шагом 30 минут = 18 слотов
	require.Len(t, slots, 18)
	assert.Equal(t, types.TimeString("10:00"), slots[0])
	assert.Equal(t, types.TimeString("10:30"), slots[1])
	assert.Equal(t, types.TimeString("11:00"), slots[2])
	assert.Equal(t, types.TimeString("18:30"), slots[17])
}

func TestComputeAvailableSlots_OverlapExclusion(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")
	bookings := []*domain.Booking{
		activeBooking("11:00", "12:30"),
	}

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), 90, bookings, now, defaultSchedule())
	require.NoError(t, err)

	got := make(map[types.TimeString]bool, len(slots))
	for _, s := range slots {
		got[s] = true
	}

	// Кандидаты, пересекающие [11:00, 12:30), исключены
	assert.False(t, got["10:00"], "10:00+1.5h overlaps 11:00")
	assert.False(t, got["10:30"], "10:30+1.5h overlaps 11:00")
	assert.False(t, got["11:00"], "inside booking")
	assert.False(t, got["12:00"], "starts before booking end")

	// Граничные случаи полуоткрытых интервалов - НЕ пересечение
	assert.True(t, got["09:30"], "09:30+1.5h ends exactly at booking start")
	assert.True(t, got["12:30"], "starts exactly at booking end")
}

func TestComputeAvailableSlots_CancelledBookingsIgnored(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")
	bookings := []*domain.Booking{
		{StartTime: "11:00", EndTime: "12:30", Status: domain.StatusCancelled},
		{StartTime: "14:00", EndTime: "15:30", Status: domain.StatusCompleted},
	}

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), 90, bookings, now, defaultSchedule())
	require.NoError(t, err)

	got := make(map[types.TimeString]bool, len(slots))
	for _, s := range slots {
		got[s] = true
	}

	assert.True(t, got["11:00"])
	assert.True(t, got["14:00"])
}

func TestComputeAvailableSlots_CustomServiceBlocksOneHour(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")
	bookings := []*domain.Booking{
		activeBooking("10:00", "11:00"),
		activeBooking("12:00", "13:00"),
	}

	// Кастомная услуга с номинальной длительностью 4ч блокирует ровно 1ч
	svc := &domain.ServiceType{DurationHours: 4.0, IsCustom: true}
	require.Equal(t, 60, svc.BlockingMinutes())

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), svc.BlockingMinutes(), bookings, now, defaultSchedule())
	require.NoError(t, err)

	got := make(map[types.TimeString]bool, len(slots))
	for _, s := range slots {
		got[s] = true
	}

	// Часовое окно 11:00-12:00 между бронированиями доступно -
	// с 4-часовым блоком оно было бы занято
	assert.True(t, got["11:00"])
	// И часовой буфер по-прежнему уважает существующие бронирования
	assert.False(t, got["09:30"], "09:30+1h overlaps 10:00 booking")
	assert.False(t, got["12:30"], "12:30+1h overlaps 12:00-13:00 booking")

	// С часовым буфером услуга может начаться вплоть до 19:00
	assert.True(t, got["19:00"])
	assert.False(t, got["19:30"], "19:30+1h ends after close")
}

func TestComputeAvailableSlots_FullyBookedDayIsEmptyNotError(t *testing.T) {
	now := mustDateTime(t, "2024-03-01T08:00")
	bookings := []*domain.Booking{
		activeBooking("06:00", "20:00"),
	}

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-02"), 90, bookings, now, defaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_LateEveningLeadTimeExhaustsDay(t *testing.T) {
	// 19:00 + 2h = 21:00 - позже закрытия, на сегодня слотов нет
	now := mustDateTime(t, "2024-03-01T19:00")

	slots, err := ComputeAvailableSlots(mustDate(t, "2024-03-01"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, slots)

	// 23:30 + 2h переваливает за полночь
	now = mustDateTime(t, "2024-03-01T23:30")
	slots, err = ComputeAvailableSlots(mustDate(t, "2024-03-01"), 90, nil, now, defaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCeilToGranularity(t *testing.T) {
	tests := []struct {
		in   string
		want types.TimeString
	}{
		{"2024-03-01T16:00", "16:00"},
		{"2024-03-01T16:01", "16:30"},
		{"2024-03-01T16:07", "16:30"},
		{"2024-03-01T16:30", "16:30"},
		{"2024-03-01T16:31", "17:00"},
		{"2024-03-01T16:59", "17:00"},
	}

	for _, tt := range tests {
		got, ok := ceilToGranularity(mustDateTime(t, tt.in), 30)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "input %s", tt.in)
	}

	// Выход за пределы суток
	_, ok := ceilToGranularity(mustDateTime(t, "2024-03-01T23:31"), 30)
	assert.False(t, ok)
}
