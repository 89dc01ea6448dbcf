// Package config loads CLI settings from .widgets.yaml and WIDGETS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the option catalog lives unless configured.
	DefaultPath = "~/.widgets.db"
	// DefaultSource is the option source the combobox follows by default.
	DefaultSource = "default"
)

// Config is the resolved configuration.
type Config struct {
	Path   string `json:"path"`
	Source string `json:"source"`
	Value  string `json:"value"`
}

// BasePath implements store.Config.
func (c *Config) BasePath() string { return c.Path }

// Load reads .widgets.yaml from WIDGETS_CONFIG_PATH or the working
// directory. A missing file is not an error.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("source", DefaultSource)
	v.SetDefault("value", "")
	v.SetConfigName(".widgets") // .yaml is implicit
	v.SetEnvPrefix("WIDGETS")
	v.AutomaticEnv()

	if override := os.Getenv("WIDGETS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	return &Config{
		Path:   path,
		Source: v.GetString("source"),
		Value:  v.GetString("value"),
	}, nil
}
