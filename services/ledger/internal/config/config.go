package config

import (
	"fmt"
	"strings"

	base "github.com/AfshinJalili/txledger/libs/config"
)

type MetricsConfig struct {
	Textfile string
}

type Config struct {
	App     base.AppConfig
	Metrics MetricsConfig
}

// Overrides carries command line values that take precedence over the
// config file and environment.
type Overrides struct {
	LogLevel        string
	MetricsTextfile string
}

func Load(path string, overrides Overrides) (*Config, error) {
	appCfg, err := base.Load(path)
	if err != nil {
		return nil, err
	}

	v, err := base.NewViper(path)
	if err != nil {
		return nil, err
	}
	v.SetDefault("metrics.textfile", "")

	cfg := &Config{
		App: *appCfg,
		Metrics: MetricsConfig{
			Textfile: strings.TrimSpace(v.GetString("metrics.textfile")),
		},
	}

	if level := strings.TrimSpace(overrides.LogLevel); level != "" {
		cfg.App.LogLevel = level
	}
	if textfile := strings.TrimSpace(overrides.MetricsTextfile); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.App.LogLevel)
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.App.LogFormat)
	}
	if strings.TrimSpace(c.App.ServiceName) == "" {
		return fmt.Errorf("service name required")
	}
	return nil
}
