package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	// Подключение к базе данных заявок
	Database DatabaseConfig `json:"database"`

	// Адрес HTTP-сервера
	HTTPAddr string `json:"http_addr"`

	// Префикс файла журнала
	LogPrefix string `json:"log_prefix"`

	// Включение/отключение отладочного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`

	// Параметры прогнозирования
	Forecast ForecastConfig `json:"forecast"`

	// Периодический расчет прогноза
	Scheduler SchedulerConfig `json:"scheduler"`

	// Публикация событий в Kafka (пустой список брокеров отключает публикацию)
	Kafka KafkaConfig `json:"kafka"`

	// Учетная запись администратора
	Admin AdminConfig `json:"admin"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// ForecastConfig параметры расчета прогноза
type ForecastConfig struct {
	DefaultWindow int `json:"default_window"`
	MaxLookahead  int `json:"max_lookahead_months"`
}

// SchedulerConfig параметры периодического прогноза
type SchedulerConfig struct {
	Enabled   bool          `json:"enabled"`
	Interval  time.Duration `json:"interval"`
	Window    int           `json:"window"`
	Retention time.Duration `json:"retention"`
}

// KafkaConfig параметры публикации событий
type KafkaConfig struct {
	Brokers        []string `json:"brokers"`
	OrdersTopic    string   `json:"orders_topic"`
	ForecastsTopic string   `json:"forecasts_topic"`
}

// AdminConfig учетная запись администратора (пароль хранится в виде bcrypt-хеша)
type AdminConfig struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Значения конфигурации по умолчанию
var (
	DefaultDatabaseConfig = DatabaseConfig{
		Driver: "mysql",
		Host:   "localhost",
		Port:   3306,
		User:   "root",
		DBName: "service_requests",
	}

	DefaultAppConfig = AppConfig{
		Database:              DefaultDatabaseConfig,
		HTTPAddr:              ":8080",
		LogPrefix:             "service_requests",
		EnableDetailedLogging: false,
		Forecast: ForecastConfig{
			DefaultWindow: 3,
			MaxLookahead:  600,
		},
		Scheduler: SchedulerConfig{
			Enabled:   true,
			Interval:  24 * time.Hour,
			Window:    3,
			Retention: 90 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			OrdersTopic:    "service-requests.orders",
			ForecastsTopic: "service-requests.forecasts",
		},
		Admin: AdminConfig{
			Username: "zorkez",
		},
	}
)

// GetConfig возвращает конфигурацию по умолчанию
func GetConfig() AppConfig {
	return DefaultAppConfig
}

// Load читает конфигурацию из JSON-файла поверх значений по умолчанию
func Load(path string) (AppConfig, error) {
	config := GetConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}
	return config, nil
}

// ApplyEnv переопределяет параметры переменными окружения SR_*
func (c *AppConfig) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("некорректное значение %s=%q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	setString("SR_DB_HOST", &c.Database.Host)
	setString("SR_DB_USER", &c.Database.User)
	setString("SR_DB_PASSWORD", &c.Database.Password)
	setString("SR_DB_NAME", &c.Database.DBName)
	setString("SR_HTTP_ADDR", &c.HTTPAddr)
	setString("SR_ADMIN_USERNAME", &c.Admin.Username)
	setString("SR_ADMIN_PASSWORD_HASH", &c.Admin.PasswordHash)

	if err := setInt("SR_DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("SR_FORECAST_WINDOW", &c.Forecast.DefaultWindow); err != nil {
		return err
	}
	if err := setInt("SR_FORECAST_MAX_LOOKAHEAD", &c.Forecast.MaxLookahead); err != nil {
		return err
	}

	if v := getenv("SR_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, b)
			}
		}
	}
	if v := getenv("SR_SCHEDULER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("некорректное значение SR_SCHEDULER_INTERVAL=%q: %w", v, err)
		}
		c.Scheduler.Interval = d
	}
	if v := getenv("SR_VERBOSE"); v != "" {
		c.EnableDetailedLogging = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}

// Validate проверяет согласованность конфигурации
func (c AppConfig) Validate() error {
	if c.Forecast.DefaultWindow < 2 {
		return fmt.Errorf("размер окна по умолчанию должен быть не меньше 2, задано %d", c.Forecast.DefaultWindow)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("интервал планировщика должен быть положительным")
	}
	if c.Scheduler.Window < 2 {
		return fmt.Errorf("размер окна планировщика должен быть не меньше 2, задано %d", c.Scheduler.Window)
	}
	return nil
}
