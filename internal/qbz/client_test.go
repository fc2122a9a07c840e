package qbz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestParseBaseURL_Normalizes(t *testing.T) {
	u, err := parseBaseURL("192.168.1.10:8182")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "192.168.1.10:8182" {
		t.Fatalf("url = %q, want http://192.168.1.10:8182", u.String())
	}

	u, err = parseBaseURL("https://qbz.lan:8182/remote/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("ftp://qbz.lan"); err == nil {
		t.Fatalf("parseBaseURL accepted ftp scheme")
	}
	if _, err := parseBaseURL("   "); err == nil {
		t.Fatalf("parseBaseURL accepted empty address")
	}
}

func TestNewClient_RequiresAddressAndToken(t *testing.T) {
	cases := []struct {
		name    string
		address string
		token   string
	}{
		{name: "empty address", address: "", token: "tok"},
		{name: "empty token", address: "http://qbz.lan:8182", token: " "},
		{name: "both empty", address: "", token: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(tc.address, tc.token, time.Second)
			if !errors.Is(err, ErrMissingSession) {
				t.Fatalf("NewClient error = %v, want ErrMissingSession", err)
			}
		})
	}
}

func TestClient_SendsTokenAndDecodesReads(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	keys := map[string]string{}
	var searchQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys[r.URL.Path] = r.Header.Get(apiKeyHeader)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/ping":
			_ = json.NewEncoder(w).Encode(PingResponse{OK: true, Name: "Living Room", Version: "1.2.0"})
		case "/api/now-playing":
			_, _ = w.Write([]byte(`{"playback":{"is_playing":true,"position":42.5,"duration":180,"track_id":7,"volume":0.6},"track":{"id":7,"title":"So What","artist":"Miles Davis","album":"Kind of Blue","duration_secs":180}}`))
		case "/api/queue":
			_, _ = w.Write([]byte(`{"current_track":null,"current_index":null,"upcoming":[{"id":8,"title":"Blue in Green","artist":"Miles Davis","album":"Kind of Blue","duration_secs":337}],"history":[],"shuffle":true,"repeat":"All","total_tracks":1}`))
		case "/api/search/all":
			mu.Lock()
			searchQuery = r.URL.Query()
			mu.Unlock()
			_, _ = w.Write([]byte(`{"albums":{"items":[{"id":"abc","title":"Kind of Blue","artist":{"id":1,"name":"Miles Davis"}}],"total":1,"offset":0,"limit":12},"tracks":{"items":[],"total":0,"offset":0,"limit":12},"artists":{"items":[],"total":0,"offset":0,"limit":12}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	ping, err := c.Ping(ctx)
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if !ping.OK || ping.Name != "Living Room" || ping.Version != "1.2.0" {
		t.Fatalf("Ping payload = %#v", ping)
	}

	np, err := c.NowPlaying(ctx)
	if err != nil {
		t.Fatalf("NowPlaying returned error: %v", err)
	}
	if !np.Playback.IsPlaying || np.Playback.Position != 42.5 || np.Track == nil || np.Track.Title != "So What" {
		t.Fatalf("NowPlaying payload = %#v", np)
	}

	q, err := c.Queue(ctx)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if q.CurrentTrack != nil || q.CurrentIndex != nil {
		t.Fatalf("Queue current = %#v/%#v, want nil", q.CurrentTrack, q.CurrentIndex)
	}
	if len(q.Upcoming) != 1 || !q.Shuffle || ParseRepeatMode(q.Repeat) != RepeatAll {
		t.Fatalf("Queue payload = %#v", q)
	}

	res, err := c.Search(ctx, "  kind of blue ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(res.Albums.Items) != 1 || res.Albums.Items[0].Artist.Name != "Miles Davis" {
		t.Fatalf("Search payload = %#v", res)
	}

	mu.Lock()
	defer mu.Unlock()
	if searchQuery.Get("q") != "kind of blue" || searchQuery.Get("limit") != "12" || searchQuery.Get("offset") != "0" {
		t.Fatalf("Search query = %v", searchQuery)
	}
	for path, key := range keys {
		if key != "secret" {
			t.Fatalf("%s sent %s = %q, want secret", path, apiKeyHeader, key)
		}
	}
}

func TestClient_EncodesActionBodies(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	bodies := map[string]map[string]any{}
	methods := map[string]string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		mu.Lock()
		bodies[r.URL.Path] = body
		methods[r.URL.Path] = r.Method
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/queue/shuffle":
			_, _ = w.Write([]byte(`{"shuffle":true,"repeat":"off"}`))
		case "/api/queue/repeat":
			_, _ = w.Write([]byte(`{"shuffle":false,"repeat":"one"}`))
		case "/api/queue/add":
			_, _ = w.Write([]byte(`{"success":true,"queueLength":4}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"play":     func() error { return c.Play(ctx) },
		"pause":    func() error { return c.Pause(ctx) },
		"next":     func() error { return c.Next(ctx) },
		"previous": func() error { return c.Previous(ctx) },
		"seek":     func() error { return c.Seek(ctx, 95) },
		"volume":   func() error { return c.SetVolume(ctx, 0.35) },
		"index":    func() error { return c.PlayQueueIndex(ctx, 3) },
		"album":    func() error { return c.PlayAlbum(ctx, "abc") },
	} {
		if err := call(); err != nil {
			t.Fatalf("%s returned error: %v", name, err)
		}
	}

	shuffle, err := c.SetShuffle(ctx, true)
	if err != nil || !shuffle.Shuffle {
		t.Fatalf("SetShuffle = %#v, %v", shuffle, err)
	}
	repeat, err := c.SetRepeat(ctx, RepeatOne.Wire())
	if err != nil || ParseRepeatMode(repeat.Repeat) != RepeatOne {
		t.Fatalf("SetRepeat = %#v, %v", repeat, err)
	}
	added, err := c.AddToQueue(ctx, Track{ID: 9, Title: "Freddie Freeloader"})
	if err != nil || !added.Success || added.QueueLength != 4 {
		t.Fatalf("AddToQueue = %#v, %v", added, err)
	}

	mu.Lock()
	defer mu.Unlock()
	for path, method := range methods {
		if method != http.MethodPost {
			t.Fatalf("%s used %s, want POST", path, method)
		}
	}
	if bodies["/api/playback/seek"]["position"] != float64(95) {
		t.Fatalf("seek body = %v", bodies["/api/playback/seek"])
	}
	if bodies["/api/playback/volume"]["volume"] != 0.35 {
		t.Fatalf("volume body = %v", bodies["/api/playback/volume"])
	}
	if bodies["/api/queue/play"]["index"] != float64(3) {
		t.Fatalf("queue play body = %v", bodies["/api/queue/play"])
	}
	if bodies["/api/album/play"]["albumId"] != "abc" {
		t.Fatalf("album body = %v", bodies["/api/album/play"])
	}
	if bodies["/api/queue/shuffle"]["enabled"] != true {
		t.Fatalf("shuffle body = %v", bodies["/api/queue/shuffle"])
	}
	if bodies["/api/queue/repeat"]["mode"] != "one" {
		t.Fatalf("repeat body = %v", bodies["/api/queue/repeat"])
	}
	track, _ := bodies["/api/queue/add"]["track"].(map[string]any)
	if track["title"] != "Freddie Freeloader" {
		t.Fatalf("queue add body = %v", bodies["/api/queue/add"])
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/now-playing":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/queue":
			http.Error(w, "queue unavailable", http.StatusInternalServerError)
		case "/api/ping":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "bad", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.NowPlaying(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("NowPlaying error = %v, want decode response error", err)
	}

	_, err = c.Queue(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Queue error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "queue unavailable" {
		t.Fatalf("Queue APIError = %#v", apiErr)
	}

	_, err = c.Ping(context.Background())
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Ping error = %v, want 401 APIError", err)
	}
	if !strings.Contains(err.Error(), "returned status 401") {
		t.Fatalf("Ping error text = %q", err.Error())
	}
}

func TestClient_LibraryReads(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var favQuery url.Values
	var albumPath string
	var removed map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/favorites":
			mu.Lock()
			favQuery = r.URL.Query()
			mu.Unlock()
			switch r.URL.Query().Get("fav_type") {
			case "tracks":
				_, _ = w.Write([]byte(`{"items":[{"id":9,"title":"So What","performer":{"id":1,"name":"Miles Davis"},"album":{"id":"kob","title":"Kind of Blue","image":{"small":"s.jpg","large":"l.jpg"}},"duration":545,"streamable":true}],"total":1}`))
			case "artists":
				_, _ = w.Write([]byte(`{"items":null,"total":0}`))
			default:
				_, _ = w.Write([]byte(`{"items":[{"id":"kob","title":"Kind of Blue","artist":{"id":1,"name":"Miles Davis"}}],"total":1}`))
			}
		case r.URL.Path == "/api/favorites/remove":
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&removed)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/api/album/"):
			mu.Lock()
			albumPath = r.URL.EscapedPath()
			mu.Unlock()
			_, _ = w.Write([]byte(`{"id":"a/1","title":"Kind of Blue","artist":{"id":1,"name":"Miles Davis"},"image":{"small":"s.jpg"},"release_date_original":"1959-08-17","genre":{"name":"Jazz"},"tracks":{"items":[{"id":1,"title":"So What","duration":545,"track_number":1,"streamable":true},{"id":2,"title":"Freddie Freeloader","duration":589,"track_number":2,"performer":{"id":3,"name":"Wynton Kelly"},"streamable":false}]}}`))
		case r.URL.Path == "/api/artist/1":
			_, _ = w.Write([]byte(`{"id":1,"name":"Miles Davis","albums_count":2,"biography":{"content":"Trumpeter."},"albums":{"items":[{"id":"kob","title":"Kind of Blue","release_date_original":"1959-08-17"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	albums, err := c.Favorites(ctx, FavoriteAlbums)
	if err != nil {
		t.Fatalf("Favorites(albums) returned error: %v", err)
	}
	if albums.Len() != 1 || albums.Albums[0].ID != "kob" || albums.Type != FavoriteAlbums {
		t.Fatalf("album favorites = %#v", albums)
	}
	mu.Lock()
	if favQuery.Get("limit") != "50" {
		t.Fatalf("favorites query = %v, want limit=50", favQuery)
	}
	mu.Unlock()

	tracks, err := c.Favorites(ctx, FavoriteTracks)
	if err != nil {
		t.Fatalf("Favorites(tracks) returned error: %v", err)
	}
	if len(tracks.Tracks) != 1 {
		t.Fatalf("track favorites = %#v", tracks)
	}
	qt := tracks.Tracks[0].QueueTrack()
	if qt.Artist != "Miles Davis" || qt.Album != "Kind of Blue" || qt.ArtworkURL != "l.jpg" || qt.DurationSecs != 545 {
		t.Fatalf("QueueTrack = %#v", qt)
	}

	artists, err := c.Favorites(ctx, FavoriteArtists)
	if err != nil || artists.Len() != 0 {
		t.Fatalf("Favorites(artists) = %#v, %v; want empty list", artists, err)
	}

	if _, err := c.Favorites(ctx, "playlists"); err == nil {
		t.Fatalf("Favorites(playlists) returned nil error")
	}

	if err := c.RemoveFavorite(ctx, FavoriteAlbums, "kob"); err != nil {
		t.Fatalf("RemoveFavorite returned error: %v", err)
	}
	mu.Lock()
	if removed["favType"] != "albums" || removed["itemId"] != "kob" {
		t.Fatalf("remove body = %v", removed)
	}
	mu.Unlock()

	album, err := c.Album(ctx, "a/1")
	if err != nil {
		t.Fatalf("Album returned error: %v", err)
	}
	mu.Lock()
	if albumPath != "/api/album/a%2F1" {
		t.Fatalf("album path = %q, want escaped id", albumPath)
	}
	mu.Unlock()
	if album.Year() != "1959" || len(album.Tracks.Items) != 2 {
		t.Fatalf("album = %#v", album)
	}
	if got := album.QueueTrack(album.Tracks.Items[1]).Artist; got != "Wynton Kelly" {
		t.Fatalf("performer artist = %q, want Wynton Kelly", got)
	}
	if got := album.QueueTrack(album.Tracks.Items[0]); got.Artist != "Miles Davis" || got.ArtworkURL != "s.jpg" {
		t.Fatalf("album artist fallback = %#v", got)
	}

	artist, err := c.Artist(ctx, "1")
	if err != nil {
		t.Fatalf("Artist returned error: %v", err)
	}
	if artist.Name != "Miles Davis" || artist.Bio() != "Trumpeter." || len(artist.Albums.Items) != 1 {
		t.Fatalf("artist = %#v", artist)
	}
}

func TestParseFavoriteType(t *testing.T) {
	cases := map[string]FavoriteType{"albums": FavoriteAlbums, " Tracks ": FavoriteTracks, "ARTISTS": FavoriteArtists}
	for in, want := range cases {
		got, err := ParseFavoriteType(in)
		if err != nil || got != want {
			t.Fatalf("ParseFavoriteType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFavoriteType("playlists"); err == nil {
		t.Fatalf("ParseFavoriteType(playlists) returned nil error")
	}
}

func TestClient_SearchRequiresQuery(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", "tok", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Search(context.Background(), "  "); err == nil {
		t.Fatalf("Search returned nil error, want error")
	}
}

func TestClient_PushURL(t *testing.T) {
	c, err := NewClient("https://qbz.lan:8182", "a b", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.pushURL(); got != "wss://qbz.lan:8182/api/ws?token=a+b" {
		t.Fatalf("pushURL = %q", got)
	}

	c, err = NewClient("qbz.lan:8182", "tok", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.pushURL(); got != "ws://qbz.lan:8182/api/ws?token=tok" {
		t.Fatalf("pushURL = %q", got)
	}
}

func TestOpenPush_SignalsPerFrameAndClosesOnDisconnect(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	release := make(chan struct{})
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ws" {
			http.NotFound(w, r)
			return
		}
		gotToken = r.URL.Query().Get("token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"changed"}`))
		<-release
		_ = conn.Close()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	push, err := c.OpenPush(context.Background())
	if err != nil {
		t.Fatalf("OpenPush returned error: %v", err)
	}
	t.Cleanup(func() { _ = push.Close() })

	select {
	case _, ok := <-push.Signals():
		if !ok {
			t.Fatalf("signals closed before first frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no signal received")
	}
	if gotToken != "secret" {
		t.Fatalf("token query = %q, want secret", gotToken)
	}

	close(release)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-push.Signals():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("signals not closed after server disconnect")
		}
	}
}
