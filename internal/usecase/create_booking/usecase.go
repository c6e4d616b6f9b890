package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	bookingStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/booking"
	serviceStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	"github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
)

// notifyTimeout таймаут на отправку уведомления после коммита транзакции
const notifyTimeout = 5 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	serviceRepo   ServiceRepository
	recurringRepo RecurringRepository
	notifyClient  NotifyClient
	txManager     TransactionManager
	schedule      domain.ScheduleConfig
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	recurringRepo RecurringRepository,
	notifyClient NotifyClient,
	txManager TransactionManager,
	schedule domain.ScheduleConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		serviceRepo:   serviceRepo,
		recurringRepo: recurringRepo,
		notifyClient:  notifyClient,
		txManager:     txManager,
		schedule:      schedule,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// повторная проверка пересечений выполняется под блокировкой FOR UPDATE.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceStore.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Неактивная услуга для клиента неотличима от несуществующей
	if !svc.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем пригодность услуги и описание работ для кастомных услуг
	if err := validateService(svc, req); err != nil {
		uc.logger.Warn("CreateBooking: service validation failed: %v", err)
		return nil, err
	}

	// 5. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 6. Проверяем сетку слотов и рабочие часы по блокируемому окну
	blockEnd, err := validateSlotWithinHours(req.StartTime, svc.BlockingMinutes(), uc.schedule)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 7. Проверяем минимальное время упреждения для бронирований на сегодня
	if err := validateLeadTime(req.Date, req.StartTime, now, uc.schedule.MinLeadTimeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: lead time validation failed: %v", err)
		return nil, err
	}

	// EndTime фиксирует полную номинальную длительность услуги и вычисляется
	// ровно один раз при создании
	endTime, err := req.StartTime.AddMinutes(svc.DurationMinutes())
	if err != nil {
		// Номинальная длительность уходит за полночь
		uc.logger.Warn("CreateBooking: nominal duration overflows the day: %v", err)
		return nil, ErrOutsideBusinessHours
	}

	var result *domain.Booking
	var recurringID *int64

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Получаем все активные бронирования на эту дату с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
			Date:            &req.Date,
			IncludeInactive: false,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 8.2. Повторная проверка пересечений под блокировкой
		if conflict := findConflictingBooking(req.StartTime, blockEnd, bookings); conflict != nil {
			uc.logger.Warn("CreateBooking: slot %s-%s conflicts with booking id=%d",
				req.StartTime, blockEnd, conflict.ID)
			return ErrSlotConflict
		}

		// 8.3. Статус: стандартные услуги подтверждаются сразу,
		// кастомные требуют ручного подтверждения после оценки объема работ
		status := domain.StatusConfirmed
		if svc.IsCustom {
			status = domain.StatusPending
		}

		// Описание работ хранится только у кастомных бронирований: по нему
		// хранилище отличает часовой блокирующий буфер от полной длительности
		var customDescription *string
		if svc.IsCustom {
			customDescription = req.CustomDescription
		}

		booking := &domain.Booking{
			ServiceID:   req.ServiceID,
			CustomerID:  req.CustomerID,
			BookingDate: req.Date,
			StartTime:   req.StartTime,
			EndTime:     endTime,
			Status:      status,
			// Денормализация контактных данных и услуги
			CustomerName:      req.CustomerName,
			CustomerEmail:     req.CustomerEmail,
			CustomerPhone:     req.CustomerPhone,
			ServiceAddress:    req.ServiceAddress,
			ServiceName:       svc.Name,
			ServiceCategory:   svc.Category,
			CustomDescription: customDescription,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingStore.ErrSlotTaken) {
				// Ограничение исключения в БД сработало раньше нас
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot %s", req.StartTime)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created

		// 8.4. Шаблон повторяющегося бронирования создается в той же транзакции
		if req.Recurring != nil {
			freqType, _ := domain.ParseFrequencyType(req.Recurring.FrequencyType)

			tpl, err := uc.recurringRepo.Create(txCtx, &domain.RecurringBooking{
				CustomerID:     req.CustomerID,
				ServiceID:      req.ServiceID,
				FrequencyValue: req.Recurring.FrequencyValue,
				FrequencyType:  freqType,
				StartTime:      req.StartTime,
				StartDate:      req.Date,
				NextDueDate:    nextDueDate(req.Date, req.Recurring.FrequencyValue, freqType),
				IsActive:       true,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create recurring template: %v", err)
				return fmt.Errorf("%w: failed to create recurring template: %w", ErrInternal, err)
			}

			recurringID = &tpl.ID
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	// 9. Уведомление отправляется после коммита, в формате fire-and-forget:
	// сбой доставки не откатывает бронирование
	uc.sendConfirmationAsync(result)

	return toResponse(result, recurringID), nil
}

// sendConfirmationAsync отправляет подтверждение в отдельной горутине
// с собственным таймаутом, не привязанным к контексту запроса
func (uc *UseCase) sendConfirmationAsync(b *domain.Booking) {
	notification := &notifyservice.BookingNotification{
		BookingID:         b.ID,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		ServiceName:       b.ServiceName,
		ServiceCategory:   string(b.ServiceCategory),
		BookingDate:       b.BookingDate.Format(domain.DateFormat),
		StartTime:         string(b.StartTime),
		EndTime:           string(b.EndTime),
		Status:            string(b.Status),
		ServiceAddress:    b.ServiceAddress,
		CustomDescription: b.CustomDescription,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifyClient.SendBookingConfirmation(ctx, notification); err != nil {
			uc.logger.Warn("CreateBooking: failed to send confirmation for booking id=%d: %v", b.ID, err)
		}
	}()
}

// nextDueDate вычисляет следующую дату срабатывания шаблона
func nextDueDate(from time.Time, value int, freqType domain.FrequencyType) time.Time {
	switch freqType {
	case domain.FrequencyDays:
		return from.AddDate(0, 0, value)
	case domain.FrequencyWeeks:
		return from.AddDate(0, 0, value*7)
	case domain.FrequencyMonths:
		return from.AddDate(0, value, 0)
	default:
		return from.AddDate(0, 0, value)
	}
}
