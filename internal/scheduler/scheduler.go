package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/amrteam/AMR-BookingService/internal/domain"
)

// Specs cron-выражения фоновых задач
type Specs struct {
	Recurring    string // Порождение повторяющихся бронирований
	Reminder     string // Напоминания за сутки до визита
	DraftCleanup string // Очистка истекших черновиков
}

// Scheduler запускает фоновые задачи сервиса по расписанию
type Scheduler struct {
	cron          *cron.Cron
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	serviceRepo   ServiceRepository
	draftRepo     DraftRepository
	notifyClient  NotifyClient
	txManager     TransactionManager
	schedule      domain.ScheduleConfig
	timeProvider  TimeProvider
	logger        Logger
}

// New создает планировщик фоновых задач
func New(
	bookingRepo BookingRepository,
	recurringRepo RecurringRepository,
	serviceRepo ServiceRepository,
	draftRepo DraftRepository,
	notifyClient NotifyClient,
	txManager TransactionManager,
	schedule domain.ScheduleConfig,
	logger Logger,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		serviceRepo:   serviceRepo,
		draftRepo:     draftRepo,
		notifyClient:  notifyClient,
		txManager:     txManager,
		schedule:      schedule,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Start регистрирует задачи и запускает планировщик
func (s *Scheduler) Start(specs Specs) error {
	if _, err := s.cron.AddFunc(specs.Recurring, s.SpawnRecurringBookings); err != nil {
		return fmt.Errorf("scheduler: invalid recurring spec %q: %w", specs.Recurring, err)
	}
	if _, err := s.cron.AddFunc(specs.Reminder, s.SendReminders); err != nil {
		return fmt.Errorf("scheduler: invalid reminder spec %q: %w", specs.Reminder, err)
	}
	if _, err := s.cron.AddFunc(specs.DraftCleanup, s.CleanupDrafts); err != nil {
		return fmt.Errorf("scheduler: invalid draft cleanup spec %q: %w", specs.DraftCleanup, err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started (recurring=%q, reminder=%q, draft_cleanup=%q)",
		specs.Recurring, specs.Reminder, specs.DraftCleanup)
	return nil
}

// Stop останавливает планировщик и дожидается завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
