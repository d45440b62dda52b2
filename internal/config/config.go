package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const EnvPrefix = "HOSPITAL"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Env      string `mapstructure:"env" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=sqlite3 postgres mysql"`
	Host     string `mapstructure:"host" validate:"required_unless=Driver sqlite3"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_unless=Driver sqlite3"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path" validate:"required_if=Driver sqlite3"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" validate:"min=1,max=65535"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"min=1"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" validate:"min=1"`
	APIKeyHash     string  `mapstructure:"api_key_hash"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" validate:"omitempty,url"`
	Channel      string        `mapstructure:"channel" validate:"required"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"min=0"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size" validate:"min=0"`
	MinIdleConns int           `mapstructure:"min_idle_conns" validate:"min=0"`
}

// secrets are read straight from the environment after the file is merged.
type secrets struct {
	DBPassword string `envconfig:"DB_PASSWORD"`
	APIKeyHash string `envconfig:"API_KEY_HASH"`
}

var defaults = map[string]interface{}{
	"app.name":                "hospital-admin",
	"app.env":                 "development",
	"app.log_level":           "info",
	"database.driver":         "sqlite3",
	"database.host":           "",
	"database.port":           0,
	"database.user":           "",
	"database.password":       "",
	"database.name":           "",
	"database.sslmode":        "disable",
	"database.path":           "hospital.db",
	"server.port":             8080,
	"server.timeout_seconds":  30,
	"server.rate_limit_rps":   10.0,
	"server.rate_limit_burst": 20,
	"server.api_key_hash":     "",
	"redis.url":               "",
	"redis.channel":           "hospital.audit",
	"redis.max_retries":       3,
	"redis.retry_backoff":     "100ms",
	"redis.pool_size":         10,
	"redis.min_idle_conns":    0,
}

// Load reads .env, then the YAML config (path, or config.yml in . or
// ./config), then HOSPITAL_* environment overrides. A missing default
// config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var s secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}
	if s.DBPassword != "" {
		cfg.Database.Password = s.DBPassword
	}
	if s.APIKeyHash != "" {
		cfg.Server.APIKeyHash = s.APIKeyHash
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
