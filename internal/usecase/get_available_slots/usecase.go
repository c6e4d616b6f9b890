package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	serviceRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	schedule     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	schedule domain.ScheduleConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Результат пересчитывается заново на каждый вызов: он зависит от текущего
// времени и актуального набора бронирований.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Неактивные услуги не предлагаются для новых бронирований
	if !svc.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// Некорректная длительность - дефект каталога, падаем громко
	if svc.DurationHours <= 0 {
		uc.logger.Error("GetAvailableSlots: service id=%d has non-positive duration %f",
			req.ServiceID, svc.DurationHours)
		return nil, ErrInvalidService
	}

	// 4. Получаем активные бронирования на дату
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		Date:            &req.Date,
		IncludeInactive: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Вычисляем доступные времена начала
	startTimes, err := ComputeAvailableSlots(req.Date, svc.BlockingMinutes(), bookings, now, uc.schedule)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	slots := make([]Slot, len(startTimes))
	for i, st := range startTimes {
		slots[i] = Slot{
			StartTime:       st,
			DurationMinutes: svc.DurationMinutes(),
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}
