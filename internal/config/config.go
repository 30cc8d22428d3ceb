// Package config loads runtime settings for the timer backend from an optional
// config.yaml in the app data directory and TIMER_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultIdentifier names the per-user app data directory.
	DefaultIdentifier = "com.aslant.timer"
	// DefaultReleaseEndpoint is the GitHub API URL for the latest published release.
	DefaultReleaseEndpoint = "https://api.github.com/repos/Y-ASLant/timer/releases/latest"

	envPrefix = "TIMER"
)

// Config is the merged view of file, environment and defaults.
type Config struct {
	GitHubToken     string `mapstructure:"github_token"`
	ReleaseEndpoint string `mapstructure:"release_endpoint"`
	AppIdentifier   string `mapstructure:"app_identifier"`
	LogLevel        string `mapstructure:"log_level"`
	LaunchInstaller bool   `mapstructure:"launch_installer"`
	StartHidden     bool   `mapstructure:"start_hidden"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		ReleaseEndpoint: DefaultReleaseEndpoint,
		AppIdentifier:   DefaultIdentifier,
		LogLevel:        "info",
		LaunchInstaller: true,
	}
}

// Load reads cfgFile if given, otherwise looks for config.yaml in the app data
// directory and the working directory. A missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()
	v := viper.New()

	v.SetDefault("release_endpoint", cfg.ReleaseEndpoint)
	v.SetDefault("app_identifier", cfg.AppIdentifier)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("launch_installer", cfg.LaunchInstaller)
	v.SetDefault("start_hidden", cfg.StartHidden)
	v.SetDefault("github_token", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(baseDir(DefaultIdentifier))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.AppIdentifier == "" {
		cfg.AppIdentifier = DefaultIdentifier
	}
	if cfg.ReleaseEndpoint == "" {
		cfg.ReleaseEndpoint = DefaultReleaseEndpoint
	}
	return cfg, nil
}

// AppDataDir is the per-user directory that holds downloaded updates.
func (c *Config) AppDataDir() string {
	return baseDir(c.AppIdentifier)
}

func baseDir(identifier string) string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, identifier)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "AppData", "Roaming", identifier)
}
