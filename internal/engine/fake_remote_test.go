package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/session"
	"github.com/vicrodh/qbz-control/internal/state"
)

var errBoom = errors.New("boom")

// fakeRemote is a concurrency-safe Remote whose behaviour tests can swap.
type fakeRemote struct {
	mu       sync.Mutex
	calls    map[string]int
	position float64
	volumes  []float64
	pushes   []*fakePush

	name       string
	ping       func(ctx context.Context) (*qbz.PingResponse, error)
	nowPlaying func(ctx context.Context, n int) (*qbz.NowPlayingResponse, error)
	queue      func(ctx context.Context) (*qbz.QueueResponse, error)
	seek       func(ctx context.Context, pos float64) error
	setVolume  func(ctx context.Context, v float64) error
	openPush   func(ctx context.Context) (qbz.PushChannel, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: map[string]int{}, position: 10, name: "Living Room"}
}

func (f *fakeRemote) record(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.calls[name]
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) setPosition(pos float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = pos
}

func (f *fakeRemote) Ping(ctx context.Context) (*qbz.PingResponse, error) {
	f.record("Ping")
	if f.ping != nil {
		return f.ping(ctx)
	}
	return &qbz.PingResponse{OK: true, Name: f.name, Version: "1.2.0"}, nil
}

func (f *fakeRemote) NowPlaying(ctx context.Context) (*qbz.NowPlayingResponse, error) {
	n := f.record("NowPlaying")
	if f.nowPlaying != nil {
		return f.nowPlaying(ctx, n)
	}
	f.mu.Lock()
	pos := f.position
	f.mu.Unlock()
	return &qbz.NowPlayingResponse{
		Playback: qbz.PlaybackState{IsPlaying: true, Position: pos, Duration: 300, TrackID: 7, Volume: 0.5},
		Track:    &qbz.Track{ID: 7, Title: "So What"},
	}, nil
}

func (f *fakeRemote) Queue(ctx context.Context) (*qbz.QueueResponse, error) {
	f.record("Queue")
	if f.queue != nil {
		return f.queue(ctx)
	}
	return &qbz.QueueResponse{Upcoming: []qbz.Track{{ID: 8}}, Repeat: "Off", TotalTracks: 2}, nil
}

func (f *fakeRemote) Play(context.Context) error     { f.record("Play"); return nil }
func (f *fakeRemote) Pause(context.Context) error    { f.record("Pause"); return nil }
func (f *fakeRemote) Next(context.Context) error     { f.record("Next"); return nil }
func (f *fakeRemote) Previous(context.Context) error { f.record("Previous"); return nil }

func (f *fakeRemote) Seek(ctx context.Context, pos float64) error {
	f.record("Seek")
	if f.seek != nil {
		return f.seek(ctx, pos)
	}
	f.setPosition(pos)
	return nil
}

func (f *fakeRemote) SetVolume(ctx context.Context, v float64) error {
	f.record("SetVolume")
	f.mu.Lock()
	f.volumes = append(f.volumes, v)
	f.mu.Unlock()
	if f.setVolume != nil {
		return f.setVolume(ctx, v)
	}
	return nil
}

func (f *fakeRemote) AddToQueue(context.Context, qbz.Track) (*qbz.QueueAddResponse, error) {
	f.record("AddToQueue")
	return &qbz.QueueAddResponse{Success: true}, nil
}

func (f *fakeRemote) PlayQueueIndex(context.Context, int) error {
	f.record("PlayQueueIndex")
	return nil
}

func (f *fakeRemote) PlayAlbum(context.Context, string) error {
	f.record("PlayAlbum")
	return nil
}

func (f *fakeRemote) SetShuffle(_ context.Context, enabled bool) (*qbz.ModeResponse, error) {
	f.record("SetShuffle")
	return &qbz.ModeResponse{Shuffle: enabled}, nil
}

func (f *fakeRemote) SetRepeat(_ context.Context, mode string) (*qbz.ModeResponse, error) {
	f.record("SetRepeat")
	return &qbz.ModeResponse{Repeat: mode}, nil
}

func (f *fakeRemote) Search(context.Context, string) (*qbz.SearchResponse, error) {
	f.record("Search")
	return &qbz.SearchResponse{}, nil
}

func (f *fakeRemote) Favorites(_ context.Context, typ qbz.FavoriteType) (*qbz.Favorites, error) {
	f.record("Favorites")
	return &qbz.Favorites{Type: typ}, nil
}

func (f *fakeRemote) RemoveFavorite(context.Context, qbz.FavoriteType, string) error {
	f.record("RemoveFavorite")
	return nil
}

func (f *fakeRemote) Album(_ context.Context, id string) (*qbz.AlbumDetail, error) {
	f.record("Album")
	return &qbz.AlbumDetail{ID: id}, nil
}

func (f *fakeRemote) Artist(_ context.Context, id string) (*qbz.ArtistDetail, error) {
	f.record("Artist")
	return &qbz.ArtistDetail{Name: id}, nil
}

func (f *fakeRemote) OpenPush(ctx context.Context) (qbz.PushChannel, error) {
	f.record("OpenPush")
	if f.openPush != nil {
		return f.openPush(ctx)
	}
	p := newFakePush(false)
	f.mu.Lock()
	f.pushes = append(f.pushes, p)
	f.mu.Unlock()
	return p, nil
}

func (f *fakeRemote) lastPush() *fakePush {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushes) == 0 {
		return nil
	}
	return f.pushes[len(f.pushes)-1]
}

type fakePush struct {
	signals chan struct{}
	mu      sync.Mutex
	closed  bool
}

// newFakePush returns a push channel. dead channels report closed
// immediately, like a socket the server dropped.
func newFakePush(dead bool) *fakePush {
	p := &fakePush{signals: make(chan struct{}, 1)}
	if dead {
		close(p.signals)
	}
	return p
}

func (p *fakePush) Signals() <-chan struct{} { return p.signals }

func (p *fakePush) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePush) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type testEngine struct {
	*Engine
	clock  *testingclock.FakeClock
	remote *fakeRemote
}

func newTestEngine(t *testing.T, remote *fakeRemote) *testEngine {
	t.Helper()
	fc := testingclock.NewFakeClock(time.Now())
	e := New(context.Background(), Options{
		Logger: zap.NewNop().Sugar(),
		Clock:  fc,
		NewRemote: func(session.Session) (Remote, error) {
			return remote, nil
		},
	})
	t.Cleanup(func() { _ = e.Close() })
	return &testEngine{Engine: e, clock: fc, remote: remote}
}

var testSession = session.Session{Address: "http://qbz.lan:8182", Token: "tok"}

// connect probes and waits for the initial refresh to land.
func (te *testEngine) connect(t *testing.T) {
	t.Helper()
	status, err := te.Connect(context.Background(), testSession)
	require.NoError(t, err)
	require.Equal(t, state.PhaseConnected, status.Phase)
	require.Eventually(t, func() bool {
		snap := te.Store().Snapshot()
		return snap.Playback != nil && snap.Queue != nil
	}, 2*time.Second, 5*time.Millisecond)
}

// tick advances one poll interval and waits for the poll to be served.
func (te *testEngine) tick(t *testing.T, wantNowPlaying int) {
	t.Helper()
	te.clock.Step(DefaultPollInterval)
	require.Eventually(t, func() bool {
		return te.remote.count("NowPlaying") == wantNowPlaying
	}, 2*time.Second, 5*time.Millisecond)
}
