package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/create_booking"
	getAdminBookingsHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_admin_bookings"
	getAvailableDatesHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_booking"
	getDraftHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_draft"
	getScheduleConfigHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_schedule_config"
	getServiceHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_service"
	getUserBookingsHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/get_user_bookings"
	listServicesHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/list_services"
	saveDraftHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/save_draft"
	updateBookingStatusHandler "github.com/amrteam/AMR-BookingService/internal/api/handlers/update_booking_status"
	"github.com/amrteam/AMR-BookingService/internal/api/middleware"
	"github.com/amrteam/AMR-BookingService/internal/config"
	bookingRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/booking"
	draftRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/draft"
	recurringRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/recurring"
	serviceRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	notifyClient "github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
	"github.com/amrteam/AMR-BookingService/internal/scheduler"
	bookingsService "github.com/amrteam/AMR-BookingService/internal/service/bookings"
	catalogService "github.com/amrteam/AMR-BookingService/internal/service/catalog"
	draftsService "github.com/amrteam/AMR-BookingService/internal/service/drafts"
	createBookingUC "github.com/amrteam/AMR-BookingService/internal/usecase/create_booking"
	getAvailableDatesUC "github.com/amrteam/AMR-BookingService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/amrteam/AMR-BookingService/internal/usecase/get_available_slots"
	"github.com/amrteam/AMR-BookingService/pkg/dbmetrics"
	"github.com/amrteam/AMR-BookingService/pkg/logger"
	"github.com/amrteam/AMR-BookingService/pkg/metrics"
	"github.com/amrteam/AMR-BookingService/pkg/simpletxmanager"
	"github.com/amrteam/AMR-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting AMR-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Рабочие часы и параметры сетки слотов
	schedule, err := cfg.Schedule.ToDomain()
	if err != nil {
		log.Fatal("Invalid schedule config: %v", err)
	}
	log.Info("Schedule: %s-%s, granularity %d min, lead time %d min",
		schedule.OpenTime, schedule.CloseTime, schedule.SlotGranularityMinutes, schedule.MinLeadTimeMinutes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Клиент сервиса уведомлений (при notify_service.enabled = false
	// уведомления пропускаются, бронирования работают как обычно)
	type NotifyClient interface {
		SendBookingConfirmation(ctx context.Context, n *notifyClient.BookingNotification) error
		SendBookingReminder(ctx context.Context, n *notifyClient.BookingNotification) error
	}
	var notify NotifyClient

	if cfg.NotifyService.Enabled {
		notify = notifyClient.NewClient(
			cfg.NotifyService.URL,
			time.Duration(cfg.NotifyService.Timeout)*time.Second,
			log,
		)
		log.Info("NotifyService client initialized (url=%s, timeout=%ds)",
			cfg.NotifyService.URL, cfg.NotifyService.Timeout)
	} else {
		notify = notifyClient.NewDisabledClient(log)
		log.Info("NotifyService client disabled, notifications will be skipped")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		serviceRepository   *serviceRepo.Repository
		recurringRepository *recurringRepo.Repository
		draftRepository     *draftRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		recurringRepository = recurringRepo.NewRepository(wrappedDB)
		draftRepository = draftRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		recurringRepository = recurringRepo.NewRepository(db)
		draftRepository = draftRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	catalogSvc := catalogService.NewService(serviceRepository, schedule, log)
	draftSvc := draftsService.NewService(
		draftRepository,
		time.Duration(cfg.Scheduler.DraftTTLMinutes)*time.Minute,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		recurringRepository,
		notify,
		txMgr,
		schedule,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		schedule,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(
		bookingRepository,
		schedule,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAdminBookings := getAdminBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(catalogSvc, log)
	saveDraft := saveDraftHandler.NewHandler(draftSvc, log)
	getDraft := getDraftHandler.NewHandler(draftSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)

	// Доступность
	api.HandleFunc("/available-dates", getAvailableDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Публичные параметры расписания
	api.HandleFunc("/schedule-config", getScheduleConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Черновики мастера бронирования
	protected.HandleFunc("/drafts", saveDraft.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/drafts/{token}", getDraft.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly)

	admin.HandleFunc("/bookings", getAdminBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Фоновые задачи
	var bgScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		bgScheduler = scheduler.New(
			bookingRepository,
			recurringRepository,
			serviceRepository,
			draftRepository,
			notify,
			txMgr,
			schedule,
			log,
		)
		if err := bgScheduler.Start(scheduler.Specs{
			Recurring:    cfg.Scheduler.RecurringSpec,
			Reminder:     cfg.Scheduler.ReminderSpec,
			DraftCleanup: cfg.Scheduler.DraftCleanupSpec,
		}); err != nil {
			log.Fatal("Failed to start scheduler: %v", err)
		}
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if bgScheduler != nil {
		bgScheduler.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
