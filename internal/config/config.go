package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/wellcomecollection/ssreport/internal/chart"
	"github.com/wellcomecollection/ssreport/internal/model"
	"github.com/wellcomecollection/ssreport/internal/report"
)

// Config holds all runtime configuration for an ssreport run.
type Config struct {
	KnownFailures   string            `mapstructure:"known_failures"`
	LogFormat       string            `mapstructure:"log_format"` // "text" or "json"
	LogLevel        string            `mapstructure:"log_level"`
	NoColor         bool              `mapstructure:"no_color"`
	ProcessingLimit int               `mapstructure:"processing_limit"`
	ChartLevels     int               `mapstructure:"chart_levels"`
	Colors          map[string]string `mapstructure:"colors"` // status label → colour name
	DashboardDir    string            `mapstructure:"dashboard_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("known_failures", "known_failures.txt")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)
	v.SetDefault("processing_limit", report.DefaultProcessingLimit)
	v.SetDefault("chart_levels", chart.DefaultLevels)
	v.SetDefault("colors", map[string]any{
		string(model.StatusAccepted):   "yellow",
		string(model.StatusFailed):     "red",
		string(model.StatusCompleted):  "green",
		string(model.StatusProcessing): "blue",
	})
	v.SetDefault("dashboard_dir", "output")
}

// Load builds a Config with cascade: SSREPORT_* env > config file > defaults.
// With an empty path, ./ssreport.yaml is read if it exists. Flags are bound
// by the caller on v before Load.
func Load(path string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("SSREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ssreport")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field values and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.ProcessingLimit <= 0 {
		return fmt.Errorf("processing_limit must be positive, got %d", c.ProcessingLimit)
	}
	if c.ChartLevels <= 0 {
		return fmt.Errorf("chart_levels must be positive, got %d", c.ChartLevels)
	}
	if _, err := c.ChartColors(); err != nil {
		return err
	}
	return nil
}

// ChartColors resolves the configured colour names. Keys are matched against
// the known statuses case-insensitively, since viper lower-cases map keys.
func (c *Config) ChartColors() (map[string]color.Attribute, error) {
	out := make(map[string]color.Attribute, len(c.Colors))
	for label, name := range c.Colors {
		attr, err := chart.ParseColor(name)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", label, err)
		}
		out[canonicalLabel(label)] = attr
	}
	return out, nil
}

func canonicalLabel(label string) string {
	for _, s := range model.KnownStatuses {
		if strings.EqualFold(label, string(s)) {
			return string(s)
		}
	}
	return label
}

// Level parses LogLevel, falling back to info for unknown names.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
