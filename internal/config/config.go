package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Market   MarketConfig
	Scanner  ScannerConfig
	Monitor  MonitorConfig
	Engine   EngineConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// MarketConfig - настройки клиента рыночных данных
type MarketConfig struct {
	// Base URL биржевого API (переопределяется для тестов/прокси)
	BaseURL string
}

// ScannerConfig - настройки обнаружения пар
type ScannerConfig struct {
	// Фильтры ликвидности вселенной
	MinVolume24h    float64 // минимальный суточный оборот, USDT
	MinOpenInterest float64 // минимальный открытый интерес, USDT

	// Лимиты отбора
	TopLiquidPerSector int // кандидаты кросс-секторных пар на сектор
	TopPerSector       int // публикуемых пар на сектор
	TopCrossSector     int // публикуемых кросс-секторных пар

	// Пороги fitness
	MinCorrelation      float64 // секторные пары
	CrossMinCorrelation float64 // кросс-секторные пары
	MaxHalfLifeDays     float64
}

// MonitorConfig - настройки торгового цикла
type MonitorConfig struct {
	MaxPositions    int
	MinCorrelation  float64 // реактивная корреляция для входа
	MaxHalfLifeDays float64
}

// EngineConfig - настройки планировщика
type EngineConfig struct {
	ScanInterval    time.Duration
	MonitorInterval time.Duration
	ScanOnStart     bool
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "statarb"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Market: MarketConfig{
			BaseURL: getEnv("BYBIT_BASE_URL", ""),
		},
		Scanner: ScannerConfig{
			MinVolume24h:       getEnvAsFloat("SCAN_MIN_VOLUME_24H", 20_000_000),
			MinOpenInterest:    getEnvAsFloat("SCAN_MIN_OPEN_INTEREST", 5_000_000),
			TopLiquidPerSector: getEnvAsInt("SCAN_TOP_LIQUID_PER_SECTOR", 3),
			TopPerSector:       getEnvAsInt("SCAN_TOP_PER_SECTOR", 3),
			TopCrossSector:     getEnvAsInt("SCAN_TOP_CROSS_SECTOR", 2),

			MinCorrelation:      getEnvAsFloat("SCAN_MIN_CORRELATION", 0.7),
			CrossMinCorrelation: getEnvAsFloat("SCAN_CROSS_MIN_CORRELATION", 0.8),
			MaxHalfLifeDays:     getEnvAsFloat("SCAN_MAX_HALF_LIFE_DAYS", 30),
		},
		Monitor: MonitorConfig{
			MaxPositions:    getEnvAsInt("MAX_POSITIONS", 10),
			MinCorrelation:  getEnvAsFloat("MONITOR_MIN_CORRELATION", 0.6),
			MaxHalfLifeDays: getEnvAsFloat("MONITOR_MAX_HALF_LIFE_DAYS", 30),
		},
		Engine: EngineConfig{
			ScanInterval:    getEnvAsDuration("SCAN_INTERVAL", 6*time.Hour),
			MonitorInterval: getEnvAsDuration("MONITOR_INTERVAL", 15*time.Minute),
			ScanOnStart:     getEnvAsBool("SCAN_ON_START", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate проверяет диапазоны параметров
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Scanner.MinVolume24h < 0 {
		return fmt.Errorf("SCAN_MIN_VOLUME_24H cannot be negative, got %v", c.Scanner.MinVolume24h)
	}
	if c.Scanner.MinOpenInterest < 0 {
		return fmt.Errorf("SCAN_MIN_OPEN_INTEREST cannot be negative, got %v", c.Scanner.MinOpenInterest)
	}
	if c.Scanner.TopPerSector < 1 {
		return fmt.Errorf("SCAN_TOP_PER_SECTOR must be at least 1, got %d", c.Scanner.TopPerSector)
	}
	if c.Scanner.MinCorrelation < 0 || c.Scanner.MinCorrelation > 1 {
		return fmt.Errorf("SCAN_MIN_CORRELATION must be in [0,1], got %v", c.Scanner.MinCorrelation)
	}
	if c.Scanner.CrossMinCorrelation < c.Scanner.MinCorrelation {
		return fmt.Errorf("SCAN_CROSS_MIN_CORRELATION must not be below SCAN_MIN_CORRELATION")
	}
	if c.Scanner.MaxHalfLifeDays <= 0 {
		return fmt.Errorf("SCAN_MAX_HALF_LIFE_DAYS must be positive, got %v", c.Scanner.MaxHalfLifeDays)
	}

	if c.Monitor.MaxPositions < 1 {
		return fmt.Errorf("MAX_POSITIONS must be at least 1, got %d", c.Monitor.MaxPositions)
	}
	if c.Monitor.MinCorrelation < 0 || c.Monitor.MinCorrelation > 1 {
		return fmt.Errorf("MONITOR_MIN_CORRELATION must be in [0,1], got %v", c.Monitor.MinCorrelation)
	}

	if c.Engine.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %v", c.Engine.ScanInterval)
	}
	if c.Engine.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive, got %v", c.Engine.MonitorInterval)
	}
	if c.Engine.MonitorInterval >= c.Engine.ScanInterval {
		return fmt.Errorf("MONITOR_INTERVAL must be shorter than SCAN_INTERVAL")
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
