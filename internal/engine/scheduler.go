package engine

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

const pushInitialBackoff = 500 * time.Millisecond

// link is one attached connection: its request context, remote and epoch.
type link struct {
	ctx    context.Context
	remote Remote
	epoch  uint64
}

// SchedulerConfig tunes the Scheduler.
type SchedulerConfig struct {
	PollInterval     time.Duration
	PushDebounce     time.Duration
	PushReconnectMax time.Duration
}

// Hooks are the Scheduler's callbacks into the connection manager, which
// owns the connection status. Nil fields are no-ops.
type Hooks struct {
	// RefreshFailed is called synchronously when a now-playing refresh fails.
	RefreshFailed func(epoch uint64, err error)
	// PushChanged reports the push channel opening or dropping.
	PushChanged func(epoch uint64, up bool)
}

// Scheduler keeps the playback and queue snapshots fresh from polling and
// push signals. It is the only writer of remote data into the store; status
// changes go through Hooks.
type Scheduler struct {
	store    *state.Store
	clock    clock.WithTickerAndDelayedExecution
	logger   *zap.SugaredLogger
	suppress *Suppressor
	cfg      SchedulerConfig
	hooks    Hooks

	mu         sync.Mutex
	link       *link
	pollCancel context.CancelFunc
	pollDone   chan struct{}
	pushCancel context.CancelFunc
	pushResult chan error
	debouncers []*Debouncer

	pushDebounce *Debouncer

	// In-flight tokens: at most one fetch per path at a time.
	nowPlayingMu sync.Mutex
	queueMu      sync.Mutex
}

// NewScheduler wires a Scheduler.
func NewScheduler(store *state.Store, c clock.WithTickerAndDelayedExecution, logger *zap.SugaredLogger, suppress *Suppressor, cfg SchedulerConfig, hooks Hooks) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if hooks.RefreshFailed == nil {
		hooks.RefreshFailed = func(uint64, error) {}
	}
	if hooks.PushChanged == nil {
		hooks.PushChanged = func(uint64, bool) {}
	}
	s := &Scheduler{
		store:    store,
		clock:    c,
		logger:   logger,
		suppress: suppress,
		cfg:      cfg,
		hooks:    hooks,
	}
	s.pushDebounce = NewDebouncer(c, cfg.PushDebounce, s.refreshFromPush)
	s.debouncers = append(s.debouncers, s.pushDebounce)
	return s
}

// TrackDebouncer registers a debouncer to be cancelled on teardown.
func (s *Scheduler) TrackDebouncer(d *Debouncer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debouncers = append(s.debouncers, d)
}

// Attach binds the scheduler to a connection without starting anything.
func (s *Scheduler) Attach(ctx context.Context, remote Remote, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link = &link{ctx: ctx, remote: remote, epoch: epoch}
}

// Detach forgets the current connection.
func (s *Scheduler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link = nil
}

// Start attaches to a fresh connection, runs the initial refresh, starts
// polling and opens the push channel.
func (s *Scheduler) Start(ctx context.Context, remote Remote, epoch uint64) {
	s.Attach(ctx, remote, epoch)
	l := link{ctx: ctx, remote: remote, epoch: epoch}
	go func() { _ = s.forcedRefresh(ctx, l) }()
	s.StartPolling()
	s.StartPush()
}

func (s *Scheduler) current() (link, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.link == nil {
		return link{}, false
	}
	return *s.link, true
}

// StartPolling starts the poll ticker. A running ticker is stopped first,
// so only one is ever active.
func (s *Scheduler) StartPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollingLocked()
	if s.link == nil {
		return
	}
	l := *s.link
	ctx, cancel := context.WithCancel(l.ctx)
	l.ctx = ctx
	done := make(chan struct{})
	s.pollCancel, s.pollDone = cancel, done
	ticker := s.clock.NewTicker(s.cfg.PollInterval)
	go s.pollLoop(l, ticker, done)
	s.logger.Debugw("polling started", "interval", s.cfg.PollInterval, "epoch", l.epoch)
}

// StopPolling stops the poll ticker, aborts an in-flight poll request and
// waits for the loop to exit.
func (s *Scheduler) StopPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollingLocked()
}

// Polling reports whether a poll loop is running.
func (s *Scheduler) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollCancel != nil
}

func (s *Scheduler) stopPollingLocked() {
	if s.pollCancel == nil {
		return
	}
	s.pollCancel()
	<-s.pollDone
	s.pollCancel, s.pollDone = nil, nil
}

func (s *Scheduler) pollLoop(l link, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C():
			if l.ctx.Err() != nil {
				return
			}
			s.backgroundRefresh(l)
		}
	}
}

// OnPushSignal records a push notification. Bursts collapse into one
// background refresh after the debounce window.
func (s *Scheduler) OnPushSignal() {
	s.pushDebounce.Trigger()
}

func (s *Scheduler) refreshFromPush() {
	l, ok := s.current()
	if !ok {
		return
	}
	s.backgroundRefresh(l)
}

// CancelDebounce cancels every pending debounce timer.
func (s *Scheduler) CancelDebounce() {
	s.mu.Lock()
	debouncers := append([]*Debouncer(nil), s.debouncers...)
	s.mu.Unlock()
	for _, d := range debouncers {
		d.Cancel()
	}
}

// BackgroundRefresh refreshes now-playing then queue unless a user action
// is in flight.
func (s *Scheduler) BackgroundRefresh() {
	l, ok := s.current()
	if !ok {
		return
	}
	s.backgroundRefresh(l)
}

func (s *Scheduler) backgroundRefresh(l link) {
	if err := s.refreshNowPlaying(l.ctx, l, false); err != nil {
		return
	}
	_ = s.refreshQueue(l.ctx, l, false)
}

// ForcedRefresh refreshes both snapshots concurrently, ignoring suppression.
func (s *Scheduler) ForcedRefresh(ctx context.Context) error {
	l, ok := s.current()
	if !ok {
		return nil
	}
	return s.forcedRefresh(ctx, l)
}

func (s *Scheduler) forcedRefresh(ctx context.Context, l link) error {
	// Plain group: a queue failure must not cancel the now-playing fetch.
	var g errgroup.Group
	g.Go(func() error { return s.refreshNowPlaying(ctx, l, true) })
	g.Go(func() error { return s.refreshQueue(ctx, l, true) })
	return g.Wait()
}

// RefreshNowPlaying fetches playback and track.
func (s *Scheduler) RefreshNowPlaying(ctx context.Context, force bool) error {
	l, ok := s.current()
	if !ok {
		return nil
	}
	return s.refreshNowPlaying(ctx, l, force)
}

// RefreshQueue fetches the queue.
func (s *Scheduler) RefreshQueue(ctx context.Context, force bool) error {
	l, ok := s.current()
	if !ok {
		return nil
	}
	return s.refreshQueue(ctx, l, force)
}

func (s *Scheduler) refreshNowPlaying(ctx context.Context, l link, force bool) error {
	quiet, ok := s.acquire(&s.nowPlayingMu, force)
	if !ok {
		return nil
	}
	defer s.nowPlayingMu.Unlock()

	resp, err := l.remote.NowPlaying(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rerr := &RefreshError{Path: PathNowPlaying, Cause: err}
		s.logger.Warnw("now playing refresh failed", "error", err, "epoch", l.epoch, "forced", force)
		s.hooks.RefreshFailed(l.epoch, rerr)
		return rerr
	}

	apply := func() { s.store.ApplyNowPlaying(l.epoch, resp) }
	if force {
		apply()
	} else if !s.suppress.RunIfQuiet(quiet, apply) {
		s.logger.Debugw("dropped now playing result", "reason", "action started")
	}
	return nil
}

func (s *Scheduler) refreshQueue(ctx context.Context, l link, force bool) error {
	quiet, ok := s.acquire(&s.queueMu, force)
	if !ok {
		return nil
	}
	defer s.queueMu.Unlock()

	resp, err := l.remote.Queue(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.store.NoteQueueFailure(l.epoch)
		s.logger.Warnw("queue refresh failed", "error", err, "epoch", l.epoch)
		return &RefreshError{Path: PathQueue, Cause: err}
	}

	q := state.NewQueue(resp)
	apply := func() { s.store.ApplyQueue(l.epoch, q) }
	if force {
		apply()
	} else if !s.suppress.RunIfQuiet(quiet, apply) {
		s.logger.Debugw("dropped queue result", "reason", "action started")
	}
	return nil
}

// acquire takes the in-flight token for one path. Background refreshes are
// skipped while suppressed or while another fetch holds the token; forced
// ones wait.
func (s *Scheduler) acquire(mu *sync.Mutex, force bool) (uint64, bool) {
	if force {
		mu.Lock()
		return 0, true
	}
	quiet, idle := s.suppress.Window()
	if !idle {
		return 0, false
	}
	if !mu.TryLock() {
		return 0, false
	}
	return quiet, true
}

// AdoptModes writes device-echoed shuffle and repeat values.
func (s *Scheduler) AdoptModes(shuffle *bool, repeat *qbz.RepeatMode) bool {
	l, ok := s.current()
	if !ok {
		return false
	}
	return s.store.ApplyModes(l.epoch, shuffle, repeat)
}

// StartPush opens the push channel in the background and keeps it open,
// re-dialing with backoff. Polling is unaffected by push failures.
func (s *Scheduler) StartPush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.closePushLocked()
	if s.link == nil {
		return
	}
	ctx, cancel := context.WithCancel(s.link.ctx)
	result := make(chan error, 1)
	s.pushCancel, s.pushResult = cancel, result
	l := *s.link
	go func() { result <- s.pushLoop(ctx, l) }()
}

// ClosePush closes the push channel and stops reconnecting.
func (s *Scheduler) ClosePush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closePushLocked()
}

func (s *Scheduler) closePushLocked() error {
	if s.pushCancel == nil {
		return nil
	}
	s.pushCancel()
	err := <-s.pushResult
	s.pushCancel, s.pushResult = nil, nil
	return err
}

func (s *Scheduler) pushLoop(ctx context.Context, l link) error {
	logger := s.logger.Named("push")
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pushInitialBackoff
	if s.cfg.PushReconnectMax > 0 {
		b.MaxInterval = s.cfg.PushReconnectMax
	}

	for {
		ch, err := l.remote.OpenPush(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warnw("push channel unavailable", "error", err)
			s.hooks.PushChanged(l.epoch, false)
		} else {
			b.Reset()
			logger.Infow("push channel open")
			s.hooks.PushChanged(l.epoch, true)
			s.consume(ctx, ch)
			closeErr := ch.Close()
			if ctx.Err() != nil {
				return closeErr
			}
			logger.Warnw("push channel closed", "error", closeErr)
			s.hooks.PushChanged(l.epoch, false)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(b.NextBackOff()):
		}
	}
}

func (s *Scheduler) consume(ctx context.Context, ch qbz.PushChannel) {
	signals := ch.Signals()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			s.OnPushSignal()
		}
	}
}
