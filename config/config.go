package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageFile     = "file"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"registration-service" mapstructure:"service_name"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080" mapstructure:"server_port"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost" mapstructure:"db_host"`
	DBPort     string `env:"DB_PORT" envDefault:"5432" mapstructure:"db_port"`
	DBUser     string `env:"DB_USER" envDefault:"postgres" mapstructure:"db_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres" mapstructure:"db_password"`
	DBName     string `env:"DB_NAME" envDefault:"registration_db" mapstructure:"db_name"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable" mapstructure:"db_sslmode"`

	// RabbitURL empty disables messaging.
	RabbitURL string `env:"RABBITMQ_URL" mapstructure:"rabbitmq_url"`

	Storage        string        `env:"STORAGE" envDefault:"file" mapstructure:"storage"`
	DataDir        string        `env:"DATA_DIR" envDefault:"data" mapstructure:"data_dir"`
	BackupDir      string        `env:"BACKUP_DIR" envDefault:"backups" mapstructure:"backup_dir"`
	BadgeDir       string        `env:"BADGE_DIR" envDefault:"badges" mapstructure:"badge_dir"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m" mapstructure:"cache_ttl"`
	FlushInterval  time.Duration `env:"FLUSH_INTERVAL" envDefault:"5s" mapstructure:"flush_interval"`
	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"1h" mapstructure:"backup_interval"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" mapstructure:"log_level"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" mapstructure:"log_format"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Override copies every key set in v (flags or a config file) over cfg.
func (c *Config) Override(v *viper.Viper) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("read config overrides: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case StoragePostgres, StorageFile:
	default:
		return fmt.Errorf("unknown storage %q (postgres, file)", c.Storage)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive, got %s", c.FlushInterval)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SetupLogging applies the level and format to the standard logrus logger.
func (c *Config) SetupLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
