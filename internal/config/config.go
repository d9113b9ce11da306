// Package config предоставляет структуры и функции для загрузки конфига приложения.
//
// Конфиг читается из YAML-файла (путь в CONFIG_PATH), значения из переменных
// окружения имеют приоритет над файлом.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Режимы доставки писем.
const (
	MailModeInline = "inline"
	MailModeQueue  = "queue"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	SecretKey               string        `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"DATABASE_URL" env-required:"true"`
	MigrationsPath          string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	StocksCacheTTL          time.Duration `yaml:"stocks_cache_ttl" env-default:"5m"`
	Currency                string        `yaml:"currency" env-default:"USD"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Mail                    `yaml:"mail"`
	Log                     `yaml:"log"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP   string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	TimeoutHTTP   time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env-default:"60s"`
	BaseURL       string        `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	SecureCookies bool          `yaml:"secure_cookies" env:"SECURE_COOKIES" env-default:"false"`
	CSRFEnabled   bool          `yaml:"csrf_enabled" env:"CSRF_ENABLED" env-default:"true"`
	RememberFor   time.Duration `yaml:"remember_for" env-default:"8760h"`
	LoginRate     float64       `yaml:"login_rate" env-default:"1"`
	LoginBurst    int           `yaml:"login_burst" env-default:"5"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
}

// RabbitMQ структура для настройки очереди писем
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP структура для настройки почтового сервера
type SMTP struct {
	SMTPHost     string `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	SMTPPort     string `yaml:"port" env:"SMTP_PORT" env-default:"1025"`
	SMTPUser     string `yaml:"user" env:"SMTP_USER"`
	SMTPPass     string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPStartTLS bool   `yaml:"starttls" env:"SMTP_STARTTLS" env-default:"false"`
}

// Mail структура для настройки писем подтверждения
type Mail struct {
	Mode     string        `yaml:"mode" env:"MAIL_MODE" env-default:"inline"`
	From     string        `yaml:"from" env:"MAIL_FROM" env-default:"stonks@localhost"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"1h"`
	Workers  int           `yaml:"workers" env:"MAIL_WORKERS" env-default:"4"`
}

// Log структура для настройки файла логов.
// Пустое имя файла оставляет вывод только в stdout.
type Log struct {
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"1"`
	MaxBackups int    `yaml:"max_backups" env-default:"20"`
}

// Load читает конфиг из файла path и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность значений конфига.
func (c *Config) Validate() error {
	if len(c.SecretKey) < 16 {
		return errors.New("secret_key must be at least 16 characters")
	}
	switch c.Mail.Mode {
	case MailModeInline:
	case MailModeQueue:
		if c.RabbitMQURL == "" {
			return errors.New("rabbitmq.url is required when mail.mode is queue")
		}
	default:
		return fmt.Errorf("unknown mail.mode %q", c.Mail.Mode)
	}
	if c.Mail.TokenTTL <= 0 {
		return errors.New("mail.token_ttl must be positive")
	}
	return nil
}

// String возвращает конфиг для логов без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  CSRFEnabled: %t\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Mail:\n"+
			"  Mode: %s\n"+
			"  From: %s\n"+
			"  TokenTTL: %s\n"+
			"SMTP:\n"+
			"  Host: %s:%s\n",
		c.Env,
		c.AddressHTTP,
		c.BaseURL,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.CSRFEnabled,
		c.AddressRedis,
		c.DB,
		c.Mail.Mode,
		c.Mail.From,
		c.Mail.TokenTTL,
		c.SMTPHost,
		c.SMTPPort,
	)
}
