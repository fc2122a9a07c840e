package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds qbzctl's tunables.
type Config struct {
	PollInterval     time.Duration
	PushDebounce     time.Duration
	VolumeDebounce   time.Duration
	SeekDebounce     time.Duration
	RequestTimeout   time.Duration
	PushReconnectMax time.Duration

	SessionFile string
	LogFile     string
	LogLevel    string
	Theme       string
}

const (
	envPrefix = "QBZCTL"

	defaultConfigPath  = "~/.config/qbzctl/config.toml"
	defaultSessionFile = "~/.config/qbzctl/session.toml"
	defaultLogFile     = "~/.local/state/qbzctl/qbzctl.log"
	defaultLogLevel    = "info"
	defaultTheme       = "Dracula"

	defaultPollInterval     = 1500 * time.Millisecond
	defaultPushDebounce     = 200 * time.Millisecond
	defaultVolumeDebounce   = 120 * time.Millisecond
	defaultSeekDebounce     = 100 * time.Millisecond
	defaultRequestTimeout   = 5 * time.Second
	defaultPushReconnectMax = 30 * time.Second
)

var durationKeys = map[string]time.Duration{
	"poll_interval":      defaultPollInterval,
	"push_debounce":      defaultPushDebounce,
	"volume_debounce":    defaultVolumeDebounce,
	"seek_debounce":      defaultSeekDebounce,
	"request_timeout":    defaultRequestTimeout,
	"push_reconnect_max": defaultPushReconnectMax,
}

// Default returns the configuration used when no file or environment
// overrides are present. Paths are not expanded.
func Default() Config {
	return Config{
		PollInterval:     defaultPollInterval,
		PushDebounce:     defaultPushDebounce,
		VolumeDebounce:   defaultVolumeDebounce,
		SeekDebounce:     defaultSeekDebounce,
		RequestTimeout:   defaultRequestTimeout,
		PushReconnectMax: defaultPushReconnectMax,
		SessionFile:      defaultSessionFile,
		LogFile:          defaultLogFile,
		LogLevel:         defaultLogLevel,
		Theme:            defaultTheme,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the TOML config at path (or the default location), applies
// QBZCTL_* environment overrides and falls back to defaults for anything
// missing or invalid. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(resolved)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	def := Default()
	for key, value := range durationKeys {
		v.SetDefault(key, value.String())
	}
	v.SetDefault("session_file", def.SessionFile)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("theme", def.Theme)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		PollInterval:     duration(v, "poll_interval"),
		PushDebounce:     duration(v, "push_debounce"),
		VolumeDebounce:   duration(v, "volume_debounce"),
		SeekDebounce:     duration(v, "seek_debounce"),
		RequestTimeout:   duration(v, "request_timeout"),
		PushReconnectMax: duration(v, "push_reconnect_max"),
		SessionFile:      stringOr(v, "session_file", def.SessionFile),
		LogFile:          stringOr(v, "log_file", def.LogFile),
		LogLevel:         strings.ToLower(stringOr(v, "log_level", def.LogLevel)),
		Theme:            stringOr(v, "theme", def.Theme),
	}
	if cfg.SessionFile, err = expandPath(cfg.SessionFile); err != nil {
		return Config{}, fmt.Errorf("session_file: %w", err)
	}
	if cfg.LogFile, err = expandPath(cfg.LogFile); err != nil {
		return Config{}, fmt.Errorf("log_file: %w", err)
	}
	return cfg, nil
}

// duration parses key as a Go duration. Unparseable or non-positive values
// use the key's default.
func duration(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return durationKeys[key]
	}
	return d
}

func stringOr(v *viper.Viper, key, fallback string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return fallback
	}
	return value
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
