// Package config provides application configuration management.
// Пакет config обеспечивает управление конфигурацией приложения.
//
// Configuration is loaded from environment variables and optional .env file
// with validation at startup. Uses cleanenv for type-safe configuration.
// Конфигурация загружается из переменных окружения и опционального .env файла
// с валидацией при запуске. Использует cleanenv для типобезопасной конфигурации.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
// Config содержит всю конфигурацию приложения.
type Config struct {
	Server    ServerConfig    `yaml:"server"`                                     // HTTP server settings / Настройки HTTP сервера
	Database  DatabaseConfig  `yaml:"database"`                                   // PostgreSQL connection / Подключение к PostgreSQL
	Redis     RedisConfig     `yaml:"redis"`                                      // Redis connection / Подключение к Redis
	JWT       JWTConfig       `yaml:"jwt"`                                        // Admin session token settings / Настройки токенов админ-сессий
	Casbin    CasbinConfig    `yaml:"casbin"`                                     // Casbin RBAC settings / Настройки Casbin RBAC
	Telegram  TelegramConfig  `yaml:"telegram"`                                   // Telegram bot settings / Настройки Telegram бота
	Telemetry TelemetryConfig `yaml:"telemetry"`                                  // OpenTelemetry settings / Настройки OpenTelemetry
	Lockout   LockoutConfig   `yaml:"lockout"`                                    // Login rate limit settings / Настройки лимита попыток входа
	DevMode   bool            `env:"DEV_MODE" env-default:"true" yaml:"dev_mode"` // Development mode / Режим разработки
}

// ServerConfig contains HTTP server configuration.
// ServerConfig содержит конфигурацию HTTP сервера.
type ServerConfig struct {
	Port string `env:"SERVER_PORT" env-default:"8080" yaml:"port"` // Server port / Порт сервера
}

// DatabaseConfig contains PostgreSQL connection settings.
// DatabaseConfig содержит настройки подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost" yaml:"host"`            // Database host / Хост БД
	Port     string `env:"DB_PORT" env-default:"5432" yaml:"port"`                 // Database port / Порт БД
	User     string `env:"DB_USER" env-default:"orders_user" yaml:"user"`             // Database user / Пользователь БД
	Password string `env:"DB_PASSWORD" env-default:"orders_password" yaml:"password"` // Database password / Пароль БД
	DBName   string `env:"DB_NAME" env-default:"orders_db" yaml:"dbname"`             // Database name / Имя БД
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable" yaml:"sslmode"`        // SSL mode / Режим SSL
}

// RedisConfig contains Redis connection settings.
// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost" yaml:"host"` // Redis host / Хост Redis
	Port     string `env:"REDIS_PORT" env-default:"6379" yaml:"port"`      // Redis port / Порт Redis
	Password string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`  // Redis password / Пароль Redis
	DB       int    `env:"REDIS_DB" env-default:"0" yaml:"db"`             // Redis database number / Номер БД Redis

	MenuCacheTTL int `env:"MENU_CACHE_TTL_MINUTES" env-default:"10" yaml:"menu_cache_ttl"` // Menu cache TTL in minutes / TTL кэша меню в минутах
}

// JWTConfig contains admin session token configuration.
// JWTConfig содержит конфигурацию токенов админ-сессий.
//
// Sessions are single HS256 tokens delivered both as the admin_token
// cookie and in the login response body for header-based clients.
// Сессии — одиночные HS256 токены, передаваемые и в cookie admin_token,
// и в теле ответа логина для клиентов с заголовочной аутентификацией.
type JWTConfig struct {
	Secret        string `env:"JWT_SECRET" env-default:"your-secret-key-change-in-production" yaml:"secret"` // Signing secret / Секрет подписи
	SessionTTL    int    `env:"JWT_SESSION_TTL_DAYS" env-default:"7" yaml:"session_ttl_days"`               // Session TTL in days / TTL сессии в днях
	CookieName    string `env:"JWT_COOKIE_NAME" env-default:"admin_token" yaml:"cookie_name"`               // Session cookie name / Имя cookie сессии
	CookieSecure  bool   `env:"JWT_COOKIE_SECURE" env-default:"false" yaml:"cookie_secure"`                 // Secure cookie flag / Флаг Secure у cookie
}

// LockoutConfig contains login rate limit configuration.
// LockoutConfig содержит конфигурацию лимита попыток входа.
type LockoutConfig struct {
	MaxAttempts     int `env:"LOCKOUT_MAX_ATTEMPTS" env-default:"5" yaml:"max_attempts"`         // Max login attempts per window / Макс. попыток входа за окно
	LockoutDuration int `env:"LOCKOUT_DURATION_MINUTES" env-default:"1" yaml:"lockout_duration"` // Window length in minutes / Длина окна в минутах
}

// TelegramConfig contains Telegram bot and Mini App settings.
// TelegramConfig содержит настройки Telegram бота и Mini App.
type TelegramConfig struct {
	BotToken      string `env:"BOT_TOKEN" env-default:"" yaml:"bot_token"`                      // Bot API token / Токен Bot API
	AdminChatID   int64  `env:"ADMIN_CHAT_ID" env-default:"0" yaml:"admin_chat_id"`             // New-order notification chat / Чат уведомлений о заказах
	InitDataTTL   int    `env:"INIT_DATA_TTL_HOURS" env-default:"24" yaml:"init_data_ttl"`      // Init-data max age in hours / Макс. возраст init-data в часах
	NotifyEnabled bool   `env:"TELEGRAM_NOTIFY_ENABLED" env-default:"true" yaml:"notify_enabled"` // Outbound notifications / Исходящие уведомления
}

// CasbinConfig contains Casbin RBAC configuration.
// CasbinConfig содержит конфигурацию Casbin RBAC.
type CasbinConfig struct {
	ModelPath string `env:"CASBIN_MODEL_PATH" env-default:"configs/casbin_model.conf" yaml:"model_path"` // Casbin model path / Путь к модели Casbin
}

// TelemetryConfig contains OpenTelemetry configuration.
// TelemetryConfig содержит конфигурацию OpenTelemetry.
type TelemetryConfig struct {
	Enabled      bool   `env:"OTEL_ENABLED" env-default:"false" yaml:"enabled"`                 // Enable telemetry / Включить телеметрию
	OTLPEndpoint string `env:"OTEL_ENDPOINT" env-default:"localhost:4317" yaml:"otlp_endpoint"` // OTLP endpoint / OTLP эндпоинт
	ServiceName  string `env:"OTEL_SERVICE_NAME" env-default:"orders-service" yaml:"service_name"` // Service name / Имя сервиса
	Environment  string `env:"OTEL_ENVIRONMENT" env-default:"development" yaml:"environment"`   // Environment / Окружение
}

// DSN returns the PostgreSQL connection string.
// DSN возвращает строку подключения к PostgreSQL.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Load loads configuration from environment variables and optional .env file.
// Load загружает конфигурацию из переменных окружения и опционального .env файла.
//
// Configuration priority (highest to lowest):
// Приоритет конфигурации (от высшего к низшему):
//  1. Environment variables / Переменные окружения
//  2. .env file (if exists) / .env файл (если существует)
//  3. Default values / Значения по умолчанию
//
// Returns an error if required configuration is missing or invalid.
// Возвращает ошибку, если обязательная конфигурация отсутствует или некорректна.
func Load() (*Config, error) {
	var cfg Config

	// Try to load .env file if it exists (optional)
	// Пытаемся загрузить .env файл, если он существует (опционально)
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := cleanenv.ReadConfig(envFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	} else {
		// No .env file, read from environment only
		// Нет .env файла, читаем только из окружения
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// MustLoad загружает конфигурацию и паникует при ошибке.
//
// Use this in main() when configuration is critical for startup.
// Используйте в main(), когда конфигурация критична для запуска.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// GetDescription returns a description of all configuration parameters.
// GetDescription возвращает описание всех параметров конфигурации.
//
// Useful for generating help text or documentation.
// Полезно для генерации справочного текста или документации.
func GetDescription() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
