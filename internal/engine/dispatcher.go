package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

// Dispatcher executes user commands against the connected device.
//
// Commands issued while not connected are no-ops and return nil. Command
// failures set a notice on the store and are returned as *ActionError; they
// never disconnect.
type Dispatcher struct {
	store    *state.Store
	sched    *Scheduler
	suppress *Suppressor
	logger   *zap.SugaredLogger

	volume *Debouncer
	seek   *Debouncer

	mu            sync.Mutex
	pendingVolume pending
	pendingSeek   pending

	// Continuous sends run one at a time per category, each carrying the
	// latest staged value.
	volumeSend sync.Mutex
	seekSend   sync.Mutex
}

// pending is the latest staged value of a continuous control and the store
// token that identifies it.
type pending struct {
	value float64
	token uint64
	sent  uint64
}

// NewDispatcher wires a Dispatcher and registers its debounce timers with
// the scheduler so teardown cancels them.
func NewDispatcher(store *state.Store, sched *Scheduler, suppress *Suppressor, c clock.WithDelayedExecution, logger *zap.SugaredLogger, volumeDelay, seekDelay time.Duration) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	d := &Dispatcher{
		store:    store,
		sched:    sched,
		suppress: suppress,
		logger:   logger,
	}
	d.volume = NewDebouncer(c, volumeDelay, d.flushVolume)
	d.seek = NewDebouncer(c, seekDelay, d.flushSeek)
	sched.TrackDebouncer(d.volume)
	sched.TrackDebouncer(d.seek)
	return d
}

func (d *Dispatcher) link() (link, bool) {
	if !d.store.Status().Online() {
		return link{}, false
	}
	return d.sched.current()
}

// Connected reports whether commands will be sent.
func (d *Dispatcher) Connected() bool {
	_, ok := d.link()
	return ok
}

// Play resumes playback.
func (d *Dispatcher) Play(ctx context.Context) error {
	return d.transport(ctx, "play", Remote.Play)
}

// Pause pauses playback.
func (d *Dispatcher) Pause(ctx context.Context) error {
	return d.transport(ctx, "pause", Remote.Pause)
}

// Next skips to the next track.
func (d *Dispatcher) Next(ctx context.Context) error {
	return d.transport(ctx, "next", Remote.Next)
}

// Previous returns to the previous track.
func (d *Dispatcher) Previous(ctx context.Context) error {
	return d.transport(ctx, "previous", Remote.Previous)
}

// TogglePlayback pauses when playing and plays otherwise.
func (d *Dispatcher) TogglePlayback(ctx context.Context) error {
	snap := d.store.Snapshot()
	if snap.Playback != nil && snap.Playback.IsPlaying {
		return d.Pause(ctx)
	}
	return d.Play(ctx)
}

func (d *Dispatcher) transport(ctx context.Context, name string, call func(Remote, context.Context) error) error {
	l, ok := d.link()
	if !ok {
		return nil
	}
	d.logger.Debugw("transport command", "command", name)
	if err := call(l.remote, ctx); err != nil {
		return d.fail(CategoryPlayback, err)
	}
	_ = d.sched.refreshNowPlaying(ctx, l, true)
	return nil
}

// Seek moves the playhead immediately. Any staged seek is replaced.
func (d *Dispatcher) Seek(ctx context.Context, position float64) error {
	d.seek.Cancel()
	if !d.Connected() {
		return nil
	}
	d.stage(&d.pendingSeek, position, d.store.StageSeek)
	return d.sendSeek(ctx)
}

func (d *Dispatcher) sendSeek(ctx context.Context) error {
	d.seekSend.Lock()
	defer d.seekSend.Unlock()
	position, token, ok := d.next(&d.pendingSeek)
	if !ok {
		return nil
	}
	return d.selection(ctx, CategorySeek, func(ctx context.Context, r Remote) error {
		err := r.Seek(ctx, position)
		d.store.SettleSeek(token)
		return err
	})
}

// PlayQueueIndex jumps to a queue entry.
func (d *Dispatcher) PlayQueueIndex(ctx context.Context, index int) error {
	return d.selection(ctx, CategoryPlayback, func(ctx context.Context, r Remote) error {
		return r.PlayQueueIndex(ctx, index)
	})
}

// AddToQueue appends a track to the queue.
func (d *Dispatcher) AddToQueue(ctx context.Context, track qbz.Track) error {
	return d.selection(ctx, CategoryQueue, func(ctx context.Context, r Remote) error {
		_, err := r.AddToQueue(ctx, track)
		return err
	})
}

// PlayAlbum replaces the queue with an album.
func (d *Dispatcher) PlayAlbum(ctx context.Context, albumID string) error {
	return d.selection(ctx, CategoryAlbum, func(ctx context.Context, r Remote) error {
		return r.PlayAlbum(ctx, albumID)
	})
}

// selection runs a position or selection changing command inside a
// suppression window, then reconciles both snapshots whether or not the
// command succeeded.
func (d *Dispatcher) selection(ctx context.Context, cat Category, call func(context.Context, Remote) error) error {
	l, ok := d.link()
	if !ok {
		return nil
	}
	guard := d.suppress.Begin()
	defer guard.Release()

	callErr := call(ctx, l.remote)
	_ = d.sched.forcedRefresh(ctx, l)
	if callErr != nil {
		return d.fail(cat, callErr)
	}
	return nil
}

// StageSeek shows position immediately and sends it once dragging settles.
func (d *Dispatcher) StageSeek(position float64) {
	if !d.Connected() {
		return
	}
	snap := d.store.Snapshot()
	position = math.Max(position, 0)
	if snap.Playback != nil && snap.Playback.Duration > 0 {
		position = math.Min(position, snap.Playback.Duration)
	}
	d.stage(&d.pendingSeek, position, d.store.StageSeek)
	d.seek.Trigger()
}

// NudgeSeek stages a seek relative to the displayed position.
func (d *Dispatcher) NudgeSeek(delta float64) {
	d.StageSeek(d.store.Snapshot().Position() + delta)
}

func (d *Dispatcher) flushSeek() {
	l, ok := d.link()
	if !ok {
		return
	}
	_ = d.sendSeek(l.ctx)
}

// SetVolume shows v immediately and sends the last value of a burst once
// it settles. No refresh follows.
func (d *Dispatcher) SetVolume(v float64) {
	if !d.Connected() {
		return
	}
	d.stage(&d.pendingVolume, clamp01(v), d.store.StageVolume)
	d.volume.Trigger()
}

// NudgeVolume adjusts volume relative to the displayed value.
func (d *Dispatcher) NudgeVolume(delta float64) {
	d.SetVolume(d.store.Snapshot().Volume() + delta)
}

func (d *Dispatcher) flushVolume() {
	d.volumeSend.Lock()
	defer d.volumeSend.Unlock()
	l, ok := d.link()
	if !ok {
		return
	}
	v, token, ok := d.next(&d.pendingVolume)
	if !ok {
		return
	}
	err := l.remote.SetVolume(l.ctx, v)
	d.store.SettleVolume(token)
	if err != nil && l.ctx.Err() == nil {
		_ = d.fail(CategoryVolume, err)
	}
}

// stage records v as the latest value of p and shows it in the store.
func (d *Dispatcher) stage(p *pending, v float64, show func(float64) uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.value = v
	p.token = show(v)
}

// next claims the latest staged value of p for sending. It reports false
// when that value was already claimed by an earlier send.
func (d *Dispatcher) next(p *pending) (float64, uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.token == 0 || p.token == p.sent {
		return 0, 0, false
	}
	p.sent = p.token
	return p.value, p.token, true
}

// ToggleShuffle sends the inverted shuffle flag and adopts the device's echo.
func (d *Dispatcher) ToggleShuffle(ctx context.Context) error {
	l, ok := d.link()
	if !ok {
		return nil
	}
	guard := d.suppress.Begin()
	defer guard.Release()

	current := false
	if q := d.store.Snapshot().Queue; q != nil {
		current = q.Shuffle
	}
	resp, err := l.remote.SetShuffle(ctx, !current)
	if err != nil {
		return d.fail(CategoryShuffle, err)
	}
	echoed := resp != nil && resp.Shuffle
	d.sched.AdoptModes(&echoed, nil)
	return nil
}

// CycleRepeat requests the next mode of Off, All, One and adopts whatever
// mode the device echoes.
func (d *Dispatcher) CycleRepeat(ctx context.Context) error {
	l, ok := d.link()
	if !ok {
		return nil
	}
	guard := d.suppress.Begin()
	defer guard.Release()

	current := qbz.RepeatOff
	if q := d.store.Snapshot().Queue; q != nil {
		current = q.Repeat
	}
	resp, err := l.remote.SetRepeat(ctx, current.Next().Wire())
	if err != nil {
		return d.fail(CategoryRepeat, err)
	}
	echoed := qbz.RepeatOff
	if resp != nil {
		echoed = qbz.ParseRepeatMode(resp.Repeat)
	}
	d.sched.AdoptModes(nil, &echoed)
	return nil
}

// Search queries the catalogue. It returns nil results when not connected.
func (d *Dispatcher) Search(ctx context.Context, query string) (*qbz.SearchResponse, error) {
	l, ok := d.link()
	if !ok {
		return nil, nil
	}
	res, err := l.remote.Search(ctx, query)
	if err != nil {
		return nil, d.fail(CategorySearch, err)
	}
	return res, nil
}

// Favorites lists one favorites category. It returns nil when not connected.
func (d *Dispatcher) Favorites(ctx context.Context, typ qbz.FavoriteType) (*qbz.Favorites, error) {
	l, ok := d.link()
	if !ok {
		return nil, nil
	}
	favs, err := l.remote.Favorites(ctx, typ)
	if err != nil {
		return nil, d.fail(CategoryFavorites, err)
	}
	return favs, nil
}

// RemoveFavorite drops an item from a favorites list. Playback state is not
// affected, so no refresh follows.
func (d *Dispatcher) RemoveFavorite(ctx context.Context, typ qbz.FavoriteType, itemID string) error {
	l, ok := d.link()
	if !ok {
		return nil
	}
	d.logger.Debugw("removing favorite", "type", string(typ), "item", itemID)
	if err := l.remote.RemoveFavorite(ctx, typ, itemID); err != nil {
		return d.fail(CategoryFavoriteRemove, err)
	}
	return nil
}

// Album loads an album with its tracks.
func (d *Dispatcher) Album(ctx context.Context, albumID string) (*qbz.AlbumDetail, error) {
	l, ok := d.link()
	if !ok {
		return nil, nil
	}
	album, err := l.remote.Album(ctx, albumID)
	if err != nil {
		return nil, d.fail(CategoryAlbumDetail, err)
	}
	return album, nil
}

// Artist loads an artist with its albums.
func (d *Dispatcher) Artist(ctx context.Context, artistID string) (*qbz.ArtistDetail, error) {
	l, ok := d.link()
	if !ok {
		return nil, nil
	}
	artist, err := l.remote.Artist(ctx, artistID)
	if err != nil {
		return nil, d.fail(CategoryArtistDetail, err)
	}
	return artist, nil
}

// CancelPending drops staged volume and seek sends that have not fired.
func (d *Dispatcher) CancelPending() {
	d.volume.Cancel()
	d.seek.Cancel()
}

func (d *Dispatcher) fail(cat Category, err error) error {
	aerr := &ActionError{Category: cat, Cause: err}
	d.store.SetNotice(StatusMessage(aerr))
	d.logger.Warnw("command failed", "category", string(cat), "error", err)
	return aerr
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
