package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPairing is returned for pairing payloads without an address or token.
var ErrInvalidPairing = errors.New("invalid pairing payload")

// Pairing is the JSON document the player encodes in its pairing QR code.
type Pairing struct {
	URL     string `json:"url"`
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// ParsePairingPayload decodes a pairing payload. The token may be given as
// "token" or "api_key".
func ParsePairingPayload(payload string) (Pairing, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Pairing{}, fmt.Errorf("%w: empty payload", ErrInvalidPairing)
	}

	var raw struct {
		URL     string `json:"url"`
		Token   string `json:"token"`
		APIKey  string `json:"api_key"`
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Pairing{}, fmt.Errorf("%w: %v", ErrInvalidPairing, err)
	}

	token := strings.TrimSpace(raw.Token)
	if token == "" {
		token = strings.TrimSpace(raw.APIKey)
	}
	p := Pairing{
		URL:     strings.TrimSpace(raw.URL),
		Token:   token,
		Name:    strings.TrimSpace(raw.Name),
		Version: strings.TrimSpace(raw.Version),
	}
	if p.URL == "" || p.Token == "" {
		return Pairing{}, fmt.Errorf("%w: url and token are required", ErrInvalidPairing)
	}
	return p, nil
}

// Session converts the pairing into a storable session.
func (p Pairing) Session() Session {
	return Session{Address: p.URL, Token: p.Token, DeviceName: p.Name}.Normalize()
}

// Payload re-encodes the pairing as compact JSON.
func (p Pairing) Payload() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode pairing: %w", err)
	}
	return string(data), nil
}

// PairingFor builds a pairing document from a stored session.
func PairingFor(s Session) Pairing {
	n := s.Normalize()
	return Pairing{URL: n.Address, Token: n.Token, Name: n.DeviceName}
}
