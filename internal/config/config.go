package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Goodreads GoodreadsConfig `mapstructure:"goodreads"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

type GoodreadsConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	APIKey          string        `mapstructure:"api_key"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestInterval time.Duration `mapstructure:"request_interval" validate:"gte=0"`
	RetryAttempts   uint          `mapstructure:"retry_attempts"`
	PageSize        int           `mapstructure:"page_size" validate:"min=1,max=200"`
	ShelfPageSize   int           `mapstructure:"shelf_page_size" validate:"min=1,max=100"`
}

type AuthConfig struct {
	File string `mapstructure:"file" validate:"required,notdir"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	// Path is the database file of the sqlite driver.
	Path string `mapstructure:"path" validate:"required_if=Driver sqlite,notdir"`

	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/goodreads-export")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("goodreads.base_url", "https://www.goodreads.com/")
	v.SetDefault("goodreads.timeout", 30*time.Second)
	v.SetDefault("goodreads.request_interval", time.Second)
	v.SetDefault("goodreads.retry_attempts", 2)
	v.SetDefault("goodreads.page_size", 200)
	v.SetDefault("goodreads.shelf_page_size", 100)
	v.SetDefault("auth.file", "auth.yml")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "goodreads.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "goodreads")
	v.SetDefault("database.username", "user")

	// The developer key takes precedence over the auth file when set
	if err := v.BindEnv("goodreads.api_key", "GOODREADS_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GOODREADS_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
