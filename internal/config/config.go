package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "config/config.yaml"

type BookingConfig struct {
	Env        string `yaml:"env" env:"BOOKING_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPCServer `yaml:"grpc_server"`
	BookingDB  `yaml:"booking_db"`
	LogConfig  `yaml:"log"`
	Kafka      `yaml:"kafka"`
	Notifier   `yaml:"notifier"`
	Readiness  `yaml:"readiness"`
	Auditor    `yaml:"auditor"`
	Payments   `yaml:"payments"`
	Orders     `yaml:"orders"`
}

type HTTPServer struct {
	Host        string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout time.Duration `yaml:"read_timeout" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type BookingDB struct {
	Dsn            string `yaml:"dsn" env:"BOOKING_DB_DSN" env-required:"true"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns   int    `yaml:"max_idle_conns" env-default:"5"`
	MigrationsPath string `yaml:"migrations_path" env:"BOOKING_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Kafka struct {
	Enabled          bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers          []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	OrderEventsTopic string   `yaml:"order_events_topic" env-default:"booking-order-events"`
}

// Notifier - шлюз WhatsApp. Пустой GatewayURL = сообщения только логируются.
type Notifier struct {
	GatewayURL string        `yaml:"gateway_url" env:"NOTIFIER_GATEWAY_URL"`
	Token      string        `yaml:"token" env:"NOTIFIER_TOKEN"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
	Language   string        `yaml:"language" env:"NOTIFIER_LANGUAGE" env-default:"en"`
}

type Readiness struct {
	Enabled              bool          `yaml:"enabled" env:"READINESS_ENABLED"`
	CheckInterval        time.Duration `yaml:"check_interval" env-default:"1m"`
	CheckWindow          time.Duration `yaml:"check_window" env-default:"1h"`
	ReminderInterval     time.Duration `yaml:"reminder_interval" env-default:"5m"`
	MaxReminders         int           `yaml:"max_reminders" env-default:"3"`
	NoResponsePenaltyPct int           `yaml:"no_response_penalty_pct" env-default:"10"`
	// Напоминания "начните движение" после подтверждения готовности
	MovementWindow       time.Duration `yaml:"movement_window" env-default:"30m"`
	NoMovementPenaltyPct int           `yaml:"no_movement_penalty_pct" env-default:"5"`
	ExpiryLookback       time.Duration `yaml:"expiry_lookback" env-default:"10m"`
	BookingTimezone      string        `yaml:"booking_timezone" env:"BOOKING_TIMEZONE" env-default:"UTC"`
}

type Auditor struct {
	MonitorEnabled  bool          `yaml:"monitor_enabled" env:"AUDITOR_MONITOR_ENABLED"`
	MonitorInterval time.Duration `yaml:"monitor_interval" env-default:"10m"`
}

type Orders struct {
	QuoteWindow time.Duration `yaml:"quote_window" env:"ORDER_QUOTE_WINDOW" env-default:"0s"`
}

type Payments struct {
	Currency string `yaml:"currency" env:"PAYMENTS_CURRENCY" env-default:"SAR"`
}

// Location resolves the timezone booking dates and times are expressed in.
func (r Readiness) Location() (*time.Location, error) {
	if r.BookingTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.BookingTimezone)
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*BookingConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg BookingConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := cfg.Readiness.Location(); err != nil {
		return nil, fmt.Errorf("invalid booking_timezone %q: %w", cfg.Readiness.BookingTimezone, err)
	}

	return &cfg, nil
}

// Path returns BOOKING_CONFIG_PATH or the default location.
func Path() string {
	if p := os.Getenv("BOOKING_CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func MustLoad() *BookingConfig {
	cfg, err := Load(Path())
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}
