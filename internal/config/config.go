package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Schedule      ScheduleConfig      `toml:"schedule"`
	NotifyService NotifyServiceConfig `toml:"notify_service"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // Пустая строка = stdout
	Level string `toml:"level"` // debug/info/warn/error
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig рабочие часы и параметры сетки слотов.
// Значения по умолчанию: open 06:00, close 20:00, шаг 30 минут, запас 2 часа.
type ScheduleConfig struct {
	OpenTime               string `toml:"open_time"`
	CloseTime              string `toml:"close_time"`
	SlotGranularityMinutes int    `toml:"slot_granularity_minutes"`
	MinLeadTimeMinutes     int    `toml:"min_lead_time_minutes"`
}

// ToDomain конвертирует секцию schedule в доменную конфигурацию с валидацией
func (s *ScheduleConfig) ToDomain() (domain.ScheduleConfig, error) {
	cfg := domain.DefaultScheduleConfig()

	if s.OpenTime != "" {
		open, err := types.NewTimeStringFromString(s.OpenTime)
		if err != nil {
			return domain.ScheduleConfig{}, fmt.Errorf("schedule.open_time: %w", err)
		}
		cfg.OpenTime = open
	}

	if s.CloseTime != "" {
		closeTime, err := types.NewTimeStringFromString(s.CloseTime)
		if err != nil {
			return domain.ScheduleConfig{}, fmt.Errorf("schedule.close_time: %w", err)
		}
		cfg.CloseTime = closeTime
	}

	if s.SlotGranularityMinutes != 0 {
		cfg.SlotGranularityMinutes = s.SlotGranularityMinutes
	}
	if s.MinLeadTimeMinutes != 0 {
		cfg.MinLeadTimeMinutes = s.MinLeadTimeMinutes
	}

	if !cfg.OpenTime.IsBefore(cfg.CloseTime) {
		return domain.ScheduleConfig{}, fmt.Errorf("schedule: open_time %s must be before close_time %s", cfg.OpenTime, cfg.CloseTime)
	}
	if cfg.SlotGranularityMinutes <= 0 {
		return domain.ScheduleConfig{}, fmt.Errorf("schedule: slot_granularity_minutes must be positive")
	}
	if cfg.MinLeadTimeMinutes < 0 {
		return domain.ScheduleConfig{}, fmt.Errorf("schedule: min_lead_time_minutes must not be negative")
	}

	return cfg, nil
}

// NotifyServiceConfig настройки клиента сервиса уведомлений
type NotifyServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulerConfig настройки фоновых задач
type SchedulerConfig struct {
	Enabled          bool   `toml:"enabled"`
	RecurringSpec    string `toml:"recurring_spec"`     // cron-выражение порождения повторяющихся бронирований
	ReminderSpec     string `toml:"reminder_spec"`      // cron-выражение отправки напоминаний
	DraftCleanupSpec string `toml:"draft_cleanup_spec"` // cron-выражение очистки черновиков
	DraftTTLMinutes  int    `toml:"draft_ttl_minutes"`  // Время жизни черновика мастера
}

// Load загружает конфигурацию из toml файла
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	return cfg, nil
}

// defaultConfig значения по умолчанию для опциональных секций
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "amr-booking-service",
		},
		NotifyService: NotifyServiceConfig{
			Timeout: 5,
		},
		Scheduler: SchedulerConfig{
			RecurringSpec:    "0 5 * * *",
			ReminderSpec:     "0 9 * * *",
			DraftCleanupSpec: "@hourly",
			DraftTTLMinutes:  60,
		},
	}
}
