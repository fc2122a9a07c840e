package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/vicrodh/qbz-control/internal/qbz"
)

var (
	// ErrConfigurationMissing means the session lacks an address or token.
	ErrConfigurationMissing = errors.New("missing base URL or token")
	// ErrRemoteUnavailable means the device answered but remote control is off.
	ErrRemoteUnavailable = errors.New("remote control not available")
	// ErrProbeSuperseded is returned by a probe whose result was discarded
	// because a newer probe or a disconnect started after it.
	ErrProbeSuperseded = errors.New("probe superseded")
)

// ConnectionError is a transport-level failure during the liveness probe.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return "connection failed: " + causeText(e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// Category scopes an action failure for display.
type Category string

const (
	CategoryPlayback Category = "Playback"
	CategorySeek     Category = "Seek"
	CategoryVolume   Category = "Volume"
	CategoryShuffle  Category = "Shuffle"
	CategoryRepeat   Category = "Repeat"
	CategoryQueue    Category = "Queue"
	CategoryAlbum    Category = "Album"
	CategorySearch   Category = "Search"

	// Library reads and edits.
	CategoryFavorites      Category = "Favorites"
	CategoryFavoriteRemove Category = "FavoriteRemove"
	CategoryAlbumDetail    Category = "AlbumDetail"
	CategoryArtistDetail   Category = "ArtistDetail"
)

// ActionError is a failed command. It never tears down the connection.
type ActionError struct {
	Category Category
	Cause    error
}

func (e *ActionError) Error() string {
	msg := causeText(e.Cause)
	switch e.Category {
	case CategoryQueue:
		return "Failed to add to queue: " + msg
	case CategoryAlbum:
		return "Failed to play album: " + msg
	case CategorySearch:
		return "Search failed: " + msg
	case CategoryFavorites:
		return "Failed to load favorites: " + msg
	case CategoryFavoriteRemove:
		return "Failed to remove favorite: " + msg
	case CategoryAlbumDetail:
		return "Failed to load album: " + msg
	case CategoryArtistDetail:
		return "Failed to load artist: " + msg
	default:
		return fmt.Sprintf("%s error: %s", e.Category, msg)
	}
}

func (e *ActionError) Unwrap() error { return e.Cause }

// RefreshPath names which snapshot a refresh targets.
type RefreshPath string

const (
	PathNowPlaying RefreshPath = "now-playing"
	PathQueue      RefreshPath = "queue"
)

// RefreshError is a failed refresh. On the now-playing path it disconnects.
type RefreshError struct {
	Path  RefreshPath
	Cause error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %s", e.Path, causeText(e.Cause))
}

func (e *RefreshError) Unwrap() error { return e.Cause }

// StatusMessage renders err as the short status line text.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		connErr    *ConnectionError
		actionErr  *ActionError
		refreshErr *RefreshError
	)
	switch {
	case errors.Is(err, ErrConfigurationMissing):
		return "Missing base URL or token"
	case errors.Is(err, ErrRemoteUnavailable):
		return "Remote control not available"
	case errors.As(err, &actionErr):
		return actionErr.Error()
	case errors.As(err, &refreshErr):
		return "Disconnected: " + causeText(refreshErr.Cause)
	case errors.As(err, &connErr):
		return "Connection failed: " + causeText(connErr.Cause)
	default:
		return causeText(err)
	}
}

// causeText prefers the device's error body, then a generic status line.
func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	var apiErr *qbz.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("request failed (%d)", apiErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
