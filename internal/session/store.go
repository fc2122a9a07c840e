package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Session is the address and access token of a paired device.
type Session struct {
	Address    string `toml:"base_url"`
	Token      string `toml:"token"`
	DeviceName string `toml:"device_name,omitempty"`
}

// Normalize trims whitespace and trailing slashes from the address and
// whitespace from the token.
func (s Session) Normalize() Session {
	s.Address = strings.TrimRight(strings.TrimSpace(s.Address), "/")
	s.Token = strings.TrimSpace(s.Token)
	s.DeviceName = strings.TrimSpace(s.DeviceName)
	return s
}

// Complete reports whether both address and token are set. No network
// operation may be attempted on an incomplete session.
func (s Session) Complete() bool {
	n := s.Normalize()
	return n.Address != "" && n.Token != ""
}

// Same reports whether two sessions point at the same device with the same
// credentials.
func (s Session) Same(other Session) bool {
	a, b := s.Normalize(), other.Normalize()
	return a.Address == b.Address && a.Token == b.Token
}

const defaultSessionPath = "~/.config/qbzctl/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Store persists a Session to a TOML file.
type Store struct {
	path string
}

// NewStore resolves path (or the default when empty) and returns a Store.
func NewStore(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored session. Any failure yields an empty session.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}
	}
	return sess.Normalize()
}

// Save writes the session atomically: readers see either the old file or
// the new one, never a partial write.
func (s *Store) Save(sess Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := toml.Marshal(sess.Normalize())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Clear removes the stored session. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultSessionPath)
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
