package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.PollInterval != def.PollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, def.PollInterval)
	}
	if cfg.PushReconnectMax != 30*time.Second {
		t.Fatalf("PushReconnectMax = %v, want 30s", cfg.PushReconnectMax)
	}
	if cfg.LogLevel != "info" || cfg.Theme != "Dracula" {
		t.Fatalf("LogLevel/Theme = %q/%q, want info/Dracula", cfg.LogLevel, cfg.Theme)
	}

	wantSession, err := expandPath(defaultSessionFile)
	if err != nil {
		t.Fatalf("expandPath(defaultSessionFile) returned error: %v", err)
	}
	if cfg.SessionFile != wantSession {
		t.Fatalf("SessionFile = %q, want %q", cfg.SessionFile, wantSession)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
poll_interval = "3s"
volume_debounce = " 50ms "
session_file = "  ~/qbz/session.toml  "
log_level = "DEBUG"
theme = "Nord"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.VolumeDebounce != 50*time.Millisecond {
		t.Fatalf("VolumeDebounce = %v, want 50ms", cfg.VolumeDebounce)
	}
	if cfg.SessionFile != filepath.Join(home, "qbz", "session.toml") {
		t.Fatalf("SessionFile = %q, want it under HOME %q", cfg.SessionFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Theme != "Nord" {
		t.Fatalf("Theme = %q, want Nord", cfg.Theme)
	}
	if cfg.SeekDebounce != defaultSeekDebounce {
		t.Fatalf("SeekDebounce = %v, want default %v", cfg.SeekDebounce, defaultSeekDebounce)
	}
}

func TestLoad_InvalidValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
poll_interval = "soon"
push_debounce = "-1s"
request_timeout = "0s"
theme = "   "
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if cfg.PushDebounce != defaultPushDebounce {
		t.Fatalf("PushDebounce = %v, want %v", cfg.PushDebounce, defaultPushDebounce)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, defaultTheme)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QBZCTL_POLL_INTERVAL", "750ms")
	t.Setenv("QBZCTL_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`poll_interval = "3s"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != 750*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 750ms", cfg.PollInterval)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_interval = [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error for malformed TOML")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/.config/qbzctl")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, ".config", "qbzctl") {
		t.Fatalf("expandPath = %q, want under %q", got, home)
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatal("expandPath accepted an empty path")
	}
}
