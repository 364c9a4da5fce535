package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Payroll  PayrollConfig
	Log      LogConfig
	Pool     PoolConfig
}

type TelegramConfig struct {
	Token       string
	AdminID     int64
	PollTimeout time.Duration
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// PayrollConfig задаёт ставку и часовой пояс, в котором хранятся времена смен
type PayrollConfig struct {
	HourlyRate float64
	Timezone   string
}

type LogConfig struct {
	Level  string
	Format string
}

type PoolConfig struct {
	Workers   int
	QueueSize int
}

type Options struct {
	// RequireToken=false для CLI-команд, которым Telegram не нужен
	RequireToken bool
}

func LoadConfig() (*Config, error) {
	return Load(Options{RequireToken: true})
}

// Load читает .env (если есть), затем переменные окружения поверх значений по умолчанию
func Load(opts Options) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("telegram_token", "")
	v.SetDefault("admin_id", 0)
	v.SetDefault("poll_timeout", "10s")
	v.SetDefault("db_path", "shift-bot.db")
	v.SetDefault("db_busy_timeout", "5s")
	v.SetDefault("hourly_rate", 400)
	v.SetDefault("timezone", "Local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("workers", 4)
	v.SetDefault("queue_size", 32)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:       v.GetString("telegram_token"),
			AdminID:     v.GetInt64("admin_id"),
			PollTimeout: v.GetDuration("poll_timeout"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("db_path"),
			BusyTimeout: v.GetDuration("db_busy_timeout"),
		},
		Payroll: PayrollConfig{
			HourlyRate: v.GetFloat64("hourly_rate"),
			Timezone:   v.GetString("timezone"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Pool: PoolConfig{
			Workers:   v.GetInt("workers"),
			QueueSize: v.GetInt("queue_size"),
		},
	}

	if opts.RequireToken && cfg.Telegram.Token == "" {
		return nil, ErrNoToken{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Payroll.HourlyRate <= 0 {
		return fmt.Errorf("HOURLY_RATE должен быть больше нуля, получено %v", c.Payroll.HourlyRate)
	}
	if c.Pool.Workers <= 0 {
		return fmt.Errorf("WORKERS должен быть больше нуля, получено %d", c.Pool.Workers)
	}
	if c.Pool.QueueSize < 0 {
		return fmt.Errorf("QUEUE_SIZE не может быть отрицательным, получено %d", c.Pool.QueueSize)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH не задан")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("некорректный TIMEZONE %q: %w", c.Payroll.Timezone, err)
	}
	return nil
}

// Location возвращает часовой пояс ведомости
func (c *Config) Location() (*time.Location, error) {
	if c.Payroll.Timezone == "" || c.Payroll.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Payroll.Timezone)
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN не задан в окружении"
}
