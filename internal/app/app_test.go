package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/session"
)

const testToken = "secret-token"

func newDevice(t *testing.T, remoteEnabled bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != testToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"ok": remoteEnabled, "name": "Living Room", "version": "1.4.2"})
	})
	mux.HandleFunc("/api/now-playing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"playback": map[string]any{"is_playing": true, "position": 12, "duration": 300, "track_id": 1, "volume": 0.5},
			"track":    map[string]any{"id": 1, "title": "So What", "artist": "Miles Davis", "album": "Kind of Blue", "duration_secs": 545},
		})
	})
	mux.HandleFunc("/api/queue", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"current_index": 0, "upcoming": []any{}, "history": []any{}, "repeat": "off", "total_tracks": 1})
	})
	mux.HandleFunc("/api/search/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"albums": map[string]any{"items": []any{map[string]any{"id": "alb-1", "title": r.URL.Query().Get("q")}}},
			"tracks": map[string]any{"items": []any{}},
		})
	})
	mux.HandleFunc("/api/favorites", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fav_type") != "albums" {
			http.Error(w, "favorites unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{
			"items": []any{map[string]any{"id": "kob", "title": "Kind of Blue", "artist": map[string]any{"id": 1, "name": "Miles Davis"}}},
			"total": 1,
		})
	})
	mux.HandleFunc("/api/favorites/remove", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["itemId"] != "kob" {
			http.Error(w, "not a favorite", http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/album/kob", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "kob", "title": "Kind of Blue", "artist": map[string]any{"id": 1, "name": "Miles Davis"}})
	})
	mux.HandleFunc("/api/artist/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": 1, "name": "Miles Davis"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	env, err := Setup(context.Background(), Options{
		ConfigPath:  filepath.Join(dir, "missing.toml"),
		SessionPath: filepath.Join(dir, "session.toml"),
		LogPath:     filepath.Join(dir, "qbzctl.log"),
		LogLevel:    "debug",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestPairStoresSessionOnSuccess(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)

	status, err := Pair(context.Background(), env, session.Pairing{URL: srv.URL + "/", Token: testToken})
	require.NoError(t, err)
	// The push endpoint is absent, so the status may already be degraded.
	assert.True(t, status.Online())
	assert.Contains(t, status.Line(), "Connected to Living Room (v1.4.2)")

	stored := env.Sessions.Load()
	assert.Equal(t, srv.URL, stored.Address)
	assert.Equal(t, testToken, stored.Token)
	assert.Equal(t, "Living Room", stored.DeviceName)

	require.Eventually(t, func() bool {
		return env.Engine.Store().Snapshot().Track != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPairRejectedLeavesNoSession(t *testing.T) {
	srv := newDevice(t, false)
	env := newTestEnv(t)

	status, err := Pair(context.Background(), env, session.Pairing{URL: srv.URL, Token: testToken})
	require.Error(t, err)
	assert.Equal(t, "Remote control not available", status.Line())
	_, statErr := os.Stat(env.Sessions.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestPairBadTokenLeavesNoSession(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)

	status, err := Pair(context.Background(), env, session.Pairing{URL: srv.URL, Token: "wrong"})
	require.Error(t, err)
	assert.Contains(t, status.Line(), "Connection failed")
	assert.False(t, env.Sessions.Load().Complete())
}

func TestStatusRequiresPairing(t *testing.T) {
	env := newTestEnv(t)
	_, err := Status(context.Background(), env)
	assert.ErrorIs(t, err, ErrNotPaired)

	_, err = PairingPayload(env)
	assert.ErrorIs(t, err, ErrNotPaired)
}

func TestStatusAndPayloadFromStoredSession(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)
	require.NoError(t, env.Sessions.Save(session.Session{Address: srv.URL, Token: testToken, DeviceName: "Den"}))

	status, err := Status(context.Background(), env)
	require.NoError(t, err)
	assert.True(t, status.Online())

	payload, err := PairingPayload(env)
	require.NoError(t, err)
	p, err := session.ParsePairingPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.URL)
	assert.Equal(t, testToken, p.Token)
	assert.Equal(t, "Den", p.Name)
}

func TestSearchUsesStoredSession(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)
	require.NoError(t, env.Sessions.Save(session.Session{Address: srv.URL, Token: testToken}))

	res, err := Search(context.Background(), env, "blue")
	require.NoError(t, err)
	require.Len(t, res.Albums.Items, 1)
	assert.Equal(t, "blue", res.Albums.Items[0].Title)
}

func TestLibraryCommandsUseStoredSession(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := Favorites(ctx, env, qbz.FavoriteAlbums)
	require.ErrorIs(t, err, ErrNotPaired)

	require.NoError(t, env.Sessions.Save(session.Session{Address: srv.URL, Token: testToken}))

	favs, err := Favorites(ctx, env, qbz.FavoriteAlbums)
	require.NoError(t, err)
	require.Len(t, favs.Albums, 1)
	assert.Equal(t, "Kind of Blue", favs.Albums[0].Title)

	_, err = Favorites(ctx, env, qbz.FavoriteTracks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load favorites: favorites unavailable")

	require.NoError(t, RemoveFavorite(ctx, env, qbz.FavoriteAlbums, "kob"))
	err = RemoveFavorite(ctx, env, qbz.FavoriteAlbums, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to remove favorite: not a favorite")

	album, err := Album(ctx, env, "kob")
	require.NoError(t, err)
	assert.Equal(t, "Miles Davis", album.Artist.Name)

	artist, err := Artist(ctx, env, "1")
	require.NoError(t, err)
	assert.Equal(t, "Miles Davis", artist.Name)
}

func TestCopyTokenWritesStoredToken(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	env := newTestEnv(t)
	require.ErrorIs(t, CopyToken(env), ErrNotPaired)

	require.NoError(t, env.Sessions.Save(session.Session{Address: "http://qbz.lan:8182", Token: testToken}))
	require.NoError(t, CopyToken(env))
	assert.Equal(t, testToken, copied)

	writeClipboard = func(string) error { return errors.New("no clipboard utility found") }
	err := CopyToken(env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy token: no clipboard utility found")
}

func TestUnpairClearsSessionAndDisconnects(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)
	_, err := Pair(context.Background(), env, session.Pairing{URL: srv.URL, Token: testToken})
	require.NoError(t, err)

	require.NoError(t, Unpair(env))
	assert.False(t, env.Sessions.Load().Complete())
	assert.False(t, env.Engine.Store().Status().Online())

	// A second unpair with no session file is fine.
	require.NoError(t, Unpair(env))
}

func TestApplySessionChange(t *testing.T) {
	srv := newDevice(t, true)
	env := newTestEnv(t)
	ctx := context.Background()
	sess := session.Session{Address: srv.URL, Token: testToken}

	current := applySessionChange(ctx, env, session.Session{}, sess)
	assert.Equal(t, sess, current)
	assert.True(t, env.Engine.Store().Status().Online())
	epoch := env.Engine.Store().Epoch()

	// Cosmetic differences do not re-probe.
	current = applySessionChange(ctx, env, current, session.Session{Address: srv.URL + "/", Token: " " + testToken})
	assert.Equal(t, epoch, env.Engine.Store().Epoch())

	current = applySessionChange(ctx, env, current, session.Session{})
	assert.False(t, current.Complete())
	assert.False(t, env.Engine.Store().Status().Online())
}

func TestSetupWritesJSONLog(t *testing.T) {
	env := newTestEnv(t)
	env.Logger.Infow("hello", "k", "v")
	require.NoError(t, env.Logger.Sync())

	data, err := os.ReadFile(env.Config.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestWatcherRestartWaitsOnClock(t *testing.T) {
	fc := testingclock.NewFakeClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		restartOnFailure(ctx, fc, zap.NewNop().Sugar(), func(context.Context) error {
			calls.Add(1)
			return errors.New("watch session dir: no such file or directory")
		})
	}()

	require.Eventually(t, fc.HasWaiters, 2*time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, calls.Load(), "no restart before the delay elapses")

	fc.Step(maxWatchBackoff)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
