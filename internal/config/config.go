package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int      `mapstructure:"port"`
	DatabaseDriver string   `mapstructure:"database_driver"` // sqlite | postgres
	DatabasePath   string   `mapstructure:"database_path"`   // sqlite file path
	DatabaseURL    string   `mapstructure:"database_url"`    // postgres connection string
	JWTSecret      string   `mapstructure:"jwt_secret"`
	AuthMode       string   `mapstructure:"auth_mode"` // required | disabled (tests, local tooling)
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	RequestTimeoutSec  int `mapstructure:"request_timeout_sec"`  // HTTP read/write; 0 = server default
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait

	DBMaxOpenConns       int `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns       int `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetimeSec int `mapstructure:"db_conn_max_lifetime_sec"`

	TracingEndpoint   string  `mapstructure:"tracing_endpoint"`    // OTLP collector; empty = disabled
	TracingSampleRate float64 `mapstructure:"tracing_sample_rate"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/berwa/")
	viper.AddConfigPath("$HOME/.berwa")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 5000)
	viper.SetDefault("database_driver", "sqlite")
	viper.SetDefault("database_path", "./berwa.db")
	viper.SetDefault("database_url", "")
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("auth_mode", "required")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("request_timeout_sec", 30)
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("db_max_open_conns", 25)
	viper.SetDefault("db_max_idle_conns", 5)
	viper.SetDefault("db_conn_max_lifetime_sec", 300)
	viper.SetDefault("tracing_endpoint", "")
	viper.SetDefault("tracing_sample_rate", 1.0)

	// Environment variables
	viper.SetEnvPrefix("BERWA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
