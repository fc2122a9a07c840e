// Package config loads qbzctl's settings.
//
// # Resolution
//
// Load reads a TOML file through viper and layers three sources, highest
// first:
//
//  1. QBZCTL_* environment variables (QBZCTL_POLL_INTERVAL, ...)
//  2. The config file, ~/.config/qbzctl/config.toml unless a path is given
//  3. Built-in defaults
//
// A missing file is not an error. A file that exists but does not parse is.
//
// # Keys
//
//	poll_interval      = "1.5s"
//	push_debounce      = "200ms"
//	volume_debounce    = "120ms"
//	seek_debounce      = "100ms"
//	request_timeout    = "5s"
//	push_reconnect_max = "30s"
//	session_file       = "~/.config/qbzctl/session.toml"
//	log_file           = "~/.local/state/qbzctl/qbzctl.log"
//	log_level          = "info"
//	theme              = "Dracula"
//
// Durations use Go duration syntax. A value that does not parse, or is zero
// or negative, falls back to its default. Empty strings do the same. Paths
// have "~" expanded and are made absolute.
//
// The paired device itself is not part of this file; it lives in the
// session file managed by package session.
package config
