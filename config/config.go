package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Mail       MailConfig       `mapstructure:"mail"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Internship InternshipConfig `mapstructure:"internship"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	BaseURL      string          `mapstructure:"base_url"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	CORS         CORSConfig      `mapstructure:"cors"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig per-IP limits on the unauthenticated OTP endpoints
type RateLimitConfig struct {
	OTPRequests int           `mapstructure:"otp_requests"`
	OTPWindow   time.Duration `mapstructure:"otp_window"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LogConfig logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig Cloudinary document storage
type StorageConfig struct {
	CloudinaryURL string        `mapstructure:"cloudinary_url"`
	Folder        string        `mapstructure:"folder"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
	MaxFileBytes  int64         `mapstructure:"max_file_bytes"`
}

// QueueConfig Kafka notification queue. Empty Brokers means in-process delivery.
type QueueConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	GroupID      string        `mapstructure:"group_id"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// Enabled reports whether a broker is configured
func (c *QueueConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Brokers[0] != ""
}

// MailConfig SendGrid settings
type MailConfig struct {
	SendGridKey string        `mapstructure:"sendgrid_key"`
	FromName    string        `mapstructure:"from_name"`
	FromEmail   string        `mapstructure:"from_email"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TelegramConfig bot settings
type TelegramConfig struct {
	BotToken string        `mapstructure:"bot_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// InternshipConfig workflow constants
type InternshipConfig struct {
	DefaultDurationWeeks int           `mapstructure:"default_duration_weeks"`
	OTPTTL               time.Duration `mapstructure:"otp_ttl"`
	OTPMaxAttempts       int           `mapstructure:"otp_max_attempts"`
	OTPLockDuration      time.Duration `mapstructure:"otp_lock_duration"`
	EmailDomain          string        `mapstructure:"email_domain"`
	Timezone             string        `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC
func (c *InternshipConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SchedulerConfig cron settings
type SchedulerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	AllocationSpec string        `mapstructure:"allocation_spec"`
	JobTimeout     time.Duration `mapstructure:"job_timeout"`
}

// Load reads configuration from .env, the config file and the environment.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	// .env is optional; existing variables are never overridden
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit.otp_requests", 5)
	v.SetDefault("server.rate_limit.otp_window", "10m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "internship")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Africa/Addis_Ababa")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "1h")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.folder", "internship")
	v.SetDefault("storage.upload_timeout", "30s")
	v.SetDefault("storage.max_file_bytes", 10<<20)

	v.SetDefault("queue.brokers", []string{})
	v.SetDefault("queue.topic", "internship.notifications")
	v.SetDefault("queue.group_id", "internship-notifier")
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.retry_backoff", "30s")

	v.SetDefault("mail.from_name", "AAU Internship Team")
	v.SetDefault("mail.from_email", "no-reply@aau.edu.et")
	v.SetDefault("mail.timeout", "10s")

	v.SetDefault("telegram.timeout", "10s")

	v.SetDefault("internship.default_duration_weeks", 12)
	v.SetDefault("internship.otp_ttl", "10m")
	v.SetDefault("internship.otp_max_attempts", 4)
	v.SetDefault("internship.otp_lock_duration", "1h")
	v.SetDefault("internship.email_domain", "aau.edu.et")
	v.SetDefault("internship.timezone", "Africa/Addis_Ababa")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.allocation_spec", "@every 1m")
	v.SetDefault("scheduler.job_timeout", "2m")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("INTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot run without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Internship.OTPMaxAttempts <= 0 {
		return fmt.Errorf("invalid config: internship.otp_max_attempts must be positive")
	}
	if c.Queue.MaxAttempts <= 0 {
		return fmt.Errorf("invalid config: queue.max_attempts must be positive")
	}
	return nil
}
