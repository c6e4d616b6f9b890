package get_available_dates

import (
	"context"
	"fmt"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/internal/usecase/get_available_slots"
)

// UseCase use case для получения доступных дат месяца.
// День считается доступным, если в него помещается хотя бы один слот
// пробной длительности (полтора часа).
type UseCase struct {
	bookingRepo  BookingRepository
	schedule     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, schedule domain.ScheduleConfig, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает доступность всех дней указанного месяца
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: year=%d, month=%d", req.Year, req.Month)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	monthStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	// Одна выборка на весь месяц вместо запроса на каждый день
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		StartDate:       &monthStart,
		EndDate:         &monthEnd,
		IncludeInactive: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	byDay := groupByDay(bookings)

	days := make([]Day, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(req.Year, time.Month(req.Month), d, 0, 0, 0, 0, time.UTC)

		slots, err := get_available_slots.ComputeAvailableSlots(
			date,
			domain.DateProbeDurationMinutes,
			byDay[d],
			now,
			uc.schedule,
		)
		if err != nil {
			uc.logger.Error("GetAvailableDates: failed to probe %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to probe availability: %v", ErrInternal, err)
		}

		days = append(days, Day{
			Date:      date.Format(domain.DateFormat),
			Available: len(slots) > 0,
		})
	}

	return &Response{Year: req.Year, Month: req.Month, Days: days}, nil
}

func validateRequest(req *Request) error {
	if req.Year < 2000 || req.Year > 2200 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	return nil
}

// groupByDay раскладывает бронирования месяца по номерам дней
func groupByDay(bookings []*domain.Booking) map[int][]*domain.Booking {
	byDay := make(map[int][]*domain.Booking)
	for _, b := range bookings {
		day := b.BookingDate.Day()
		byDay[day] = append(byDay[day], b)
	}
	return byDay
}
