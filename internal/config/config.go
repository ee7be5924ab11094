package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Sessions SessionsConfig `toml:"sessions"`
	Events   EventsConfig   `toml:"events"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" default:"15" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" default:"15" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" default:"60" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" default:"10" validate:"min=1"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" default:"localhost" validate:"required"`
	Port            int    `toml:"port" default:"5432" validate:"min=1,max=65535"`
	User            string `toml:"user" default:"postgres" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" default:"salon_booking" validate:"required"`
	SSLMode         string `toml:"sslmode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" default:"25" validate:"min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" default:"5" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" default:"300" validate:"min=0"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" default:"info" validate:"oneof=debug info warn error"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" default:"true"`
	Path        string `toml:"path" default:"/metrics" validate:"startswith=/"`
	ServiceName string `toml:"service_name" default:"salon_booking" validate:"required"`
}

// BookingConfig настройки записи
type BookingConfig struct {
	// Timezone таймзона мастера: в ней считаются "сегодня" и запас времени до слота
	Timezone      string `toml:"timezone" default:"Europe/Moscow" validate:"required"`
	SubmitTimeout int    `toml:"submit_timeout" default:"10" validate:"min=1"` // секунды
	IdentityLabel string `toml:"identity_label" default:"clientName" validate:"required"`
}

// Location загружает таймзону мастера
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// SubmitTimeoutDuration таймаут подтверждения записи в мастере
func (b BookingConfig) SubmitTimeoutDuration() time.Duration {
	return time.Duration(b.SubmitTimeout) * time.Second
}

// SessionsConfig хранилище сессий мастера записи
type SessionsConfig struct {
	Backend     string      `toml:"backend" default:"memory" validate:"oneof=memory redis"`
	TTL         int         `toml:"ttl" default:"30" validate:"min=1"` // минуты
	CleanupSpec string      `toml:"cleanup_spec" default:"@every 1m" validate:"required"`
	Redis       RedisConfig `toml:"redis"`
}

// TTLDuration время жизни неактивной сессии
func (s SessionsConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Minute
}

// RedisConfig подключение к Redis для сессий
type RedisConfig struct {
	Addr     string `toml:"addr" default:"localhost:6379"`
	Password string `toml:"password"`
	DB       int    `toml:"db" default:"0" validate:"min=0"`
}

// EventsConfig публикация событий о записях в Kafka
type EventsConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic" default:"salon.appointments"`
}

var (
	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Load читает конфигурацию из TOML файла.
// Незаданные поля получают значения по умолчанию, секреты можно переопределить
// переменными окружения (в том числе из файла .env рядом с бинарником).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет значения из окружения
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DB_PORT=%q", ErrInvalidConfig, v)
		}
		cfg.Database.Port = port
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Sessions.Redis.Password = v
	}
	if v := os.Getenv("BOOKING_TIMEZONE"); v != "" {
		cfg.Booking.Timezone = v
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Booking.Timezone)
	}

	if c.Sessions.Backend == "redis" && c.Sessions.Redis.Addr == "" {
		return fmt.Errorf("%w: sessions.redis.addr is required for redis backend", ErrInvalidConfig)
	}

	if c.Events.Enabled && (len(c.Events.Brokers) == 0 || c.Events.Topic == "") {
		return fmt.Errorf("%w: events.brokers and events.topic are required when events are enabled", ErrInvalidConfig)
	}

	return nil
}
