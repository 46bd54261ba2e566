package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Режимы определения пользователя
const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
)

var (
	// ErrInvalidConfig возвращается при некорректной конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config корневая конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	Mode         string `toml:"mode"` // header | jwt
	JWTSecret    string `toml:"jwt_secret"`
	UserIDHeader string `toml:"user_id_header"`
}

type ScheduleConfig struct {
	Timezone      string `toml:"timezone"` // IANA, например "Europe/Moscow"
	WarmupOnStart bool   `toml:"warmup_on_start"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	Requests      int    `toml:"requests"`
	WindowSeconds int    `toml:"window_seconds"`
	Prefix        string `toml:"prefix"`
}

// Window окно лимитера
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Load читает .env (если есть), TOML файл и переменные окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
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
			ServiceName: "appointmentservice",
		},
		Auth: AuthConfig{
			Mode:         AuthModeHeader,
			UserIDHeader: "X-User-ID",
		},
		Schedule: ScheduleConfig{
			Timezone: "UTC",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		RateLimit: RateLimitConfig{
			Requests:      10,
			WindowSeconds: 60,
			Prefix:        "appointments:rl",
		},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.User == "" {
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}

	switch c.Auth.Mode {
	case AuthModeHeader:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("%w: auth.jwt_secret is required in jwt mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown auth.mode %q", ErrInvalidConfig, c.Auth.Mode)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("%w: rate_limit.requests and rate_limit.window_seconds must be positive", ErrInvalidConfig)
		}
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required when rate limiting is enabled", ErrInvalidConfig)
		}
	}

	return nil
}

// Location часовой пояс расписания
func (c *Config) Location() (*time.Location, error) {
	name := c.Schedule.Timezone
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule.timezone %q: %v", ErrInvalidConfig, name, err)
	}
	return loc, nil
}
