package qbz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Client talks to the QBZ remote-control HTTP API.
type Client struct {
	baseURL   *url.URL
	token     string
	http      *http.Client
	dialer    *websocket.Dialer
	userAgent string
}

const (
	apiKeyHeader          = "X-API-Key"
	defaultUserAgent      = "qbzctl/0.1"
	defaultRequestTimeout = 5 * time.Second
	searchLimit           = 12
	favoritesLimit        = 50
	maxErrorBody          = 4 << 10
)

// ErrMissingSession is returned when the address or token is empty. No
// request is attempted in that case.
var ErrMissingSession = errors.New("missing connection settings")

// APIError reports a non-2xx response. Bad or missing tokens surface here
// as 401/403 and are handled like any other request failure.
type APIError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// NewClient builds a Client for the given base address and access token.
// A zero timeout uses the default.
func NewClient(address, token string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(address) == "" || strings.TrimSpace(token) == "" {
		return nil, ErrMissingSession
	}
	base, err := parseBaseURL(address)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: timeout,
		},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping performs the liveness probe.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	var payload PingResponse
	if err := c.do(ctx, http.MethodGet, "/api/ping", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NowPlaying fetches the playback state and current track.
func (c *Client) NowPlaying(ctx context.Context) (*NowPlayingResponse, error) {
	var payload NowPlayingResponse
	if err := c.do(ctx, http.MethodGet, "/api/now-playing", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Queue fetches the queue state.
func (c *Client) Queue(ctx context.Context) (*QueueResponse, error) {
	var payload QueueResponse
	if err := c.do(ctx, http.MethodGet, "/api/queue", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Play resumes playback.
func (c *Client) Play(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/play", nil, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/pause", nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/next", nil, nil)
}

// Previous returns to the previous track.
func (c *Client) Previous(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/previous", nil, nil)
}

// Seek moves the playhead to position seconds.
func (c *Client) Seek(ctx context.Context, position float64) error {
	body := struct {
		Position float64 `json:"position"`
	}{position}
	return c.do(ctx, http.MethodPost, "/api/playback/seek", body, nil)
}

// SetVolume sets the output volume in [0,1].
func (c *Client) SetVolume(ctx context.Context, volume float64) error {
	body := struct {
		Volume float64 `json:"volume"`
	}{volume}
	return c.do(ctx, http.MethodPost, "/api/playback/volume", body, nil)
}

// AddToQueue appends a track to the queue.
func (c *Client) AddToQueue(ctx context.Context, track Track) (*QueueAddResponse, error) {
	body := struct {
		Track Track `json:"track"`
	}{track}
	var payload QueueAddResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/add", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PlayQueueIndex jumps to the queue entry at index.
func (c *Client) PlayQueueIndex(ctx context.Context, index int) error {
	body := struct {
		Index int `json:"index"`
	}{index}
	return c.do(ctx, http.MethodPost, "/api/queue/play", body, nil)
}

// PlayAlbum replaces the queue with an album and starts it.
func (c *Client) PlayAlbum(ctx context.Context, albumID string) error {
	body := struct {
		AlbumID string `json:"albumId"`
	}{albumID}
	return c.do(ctx, http.MethodPost, "/api/album/play", body, nil)
}

// SetShuffle enables or disables shuffle and returns the device's echo.
func (c *Client) SetShuffle(ctx context.Context, enabled bool) (*ModeResponse, error) {
	body := struct {
		Enabled bool `json:"enabled"`
	}{enabled}
	var payload ModeResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/shuffle", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SetRepeat sends the lowercase repeat mode name and returns the device's echo.
func (c *Client) SetRepeat(ctx context.Context, mode string) (*ModeResponse, error) {
	body := struct {
		Mode string `json:"mode"`
	}{mode}
	var payload ModeResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/repeat", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Search queries the catalogue for albums, tracks and artists.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query required")
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(searchLimit))
	values.Set("offset", "0")
	rel := &url.URL{Path: "/api/search/all", RawQuery: values.Encode()}
	var payload SearchResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Favorites fetches one favorites list.
func (c *Client) Favorites(ctx context.Context, typ FavoriteType) (*Favorites, error) {
	typ, err := ParseFavoriteType(string(typ))
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("fav_type", string(typ))
	values.Set("limit", strconv.Itoa(favoritesLimit))
	rel := &url.URL{Path: "/api/favorites", RawQuery: values.Encode()}
	var payload struct {
		Items json.RawMessage `json:"items"`
		Total int             `json:"total"`
	}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}

	favs := &Favorites{Type: typ, Total: payload.Total}
	if len(payload.Items) == 0 || string(payload.Items) == "null" {
		return favs, nil
	}
	switch typ {
	case FavoriteAlbums:
		err = json.Unmarshal(payload.Items, &favs.Albums)
	case FavoriteTracks:
		err = json.Unmarshal(payload.Items, &favs.Tracks)
	default:
		err = json.Unmarshal(payload.Items, &favs.Artists)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s favorites: %w", typ, err)
	}
	return favs, nil
}

// RemoveFavorite removes an item from a favorites list.
func (c *Client) RemoveFavorite(ctx context.Context, typ FavoriteType, itemID string) error {
	body := struct {
		FavType FavoriteType `json:"favType"`
		ItemID  string       `json:"itemId"`
	}{typ, itemID}
	return c.do(ctx, http.MethodPost, "/api/favorites/remove", body, nil)
}

// Album fetches an album with its track listing.
func (c *Client) Album(ctx context.Context, albumID string) (*AlbumDetail, error) {
	var payload AlbumDetail
	if err := c.doURL(ctx, http.MethodGet, itemURL("/api/album/", albumID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Artist fetches an artist with its albums.
func (c *Client) Artist(ctx context.Context, artistID string) (*ArtistDetail, error) {
	var payload ArtistDetail
	if err := c.doURL(ctx, http.MethodGet, itemURL("/api/artist/", artistID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// itemURL appends an escaped id segment to prefix.
func itemURL(prefix, id string) *url.URL {
	return &url.URL{Path: prefix + id, RawPath: prefix + url.PathEscape(id)}
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(apiKeyHeader, c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Path:       rel.Path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(text)),
		}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(address string) (*url.URL, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(address), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse address %q: unsupported scheme %q", address, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse address %q: missing host", address)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
