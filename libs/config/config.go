package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "LEDGER"

type AppConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Env         string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// Load reads the shared application settings from an optional config file and
// LEDGER_* environment variables. A .env file in the working directory, when
// present, is loaded into the environment first.
func Load(path string) (*AppConfig, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NewViper returns a viper instance with the environment, defaults and config
// file wired the same way for every service.
func NewViper(path string) (*viper.Viper, error) {
	if err := LoadDotEnv(""); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (!explicit && errors.Is(err, fs.ErrNotExist)) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// LoadDotEnv loads environment variables from a .env file. A missing default
// file is ignored; a missing explicit file is an error.
func LoadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "ledger")
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}
