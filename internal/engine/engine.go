package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/vicrodh/qbz-control/internal/session"
	"github.com/vicrodh/qbz-control/internal/state"
)

const (
	DefaultPollInterval     = 1500 * time.Millisecond
	DefaultPushDebounce     = 200 * time.Millisecond
	DefaultVolumeDebounce   = 120 * time.Millisecond
	DefaultSeekDebounce     = 100 * time.Millisecond
	DefaultRequestTimeout   = 5 * time.Second
	DefaultPushReconnectMax = 30 * time.Second
)

// Options configures an Engine. Zero durations use the defaults.
type Options struct {
	Store     *state.Store
	Logger    *zap.SugaredLogger
	Clock     clock.WithTickerAndDelayedExecution
	NewRemote RemoteFactory

	PollInterval     time.Duration
	PushDebounce     time.Duration
	VolumeDebounce   time.Duration
	SeekDebounce     time.Duration
	RequestTimeout   time.Duration
	PushReconnectMax time.Duration
}

// SessionClearer removes a persisted session.
type SessionClearer interface {
	Clear() error
}

// Engine ties the connection manager, scheduler and dispatcher to one store.
type Engine struct {
	store    *state.Store
	conn     *Connection
	sched    *Scheduler
	dispatch *Dispatcher
	logger   *zap.SugaredLogger
}

// New builds an Engine. ctx bounds every connection it makes.
func New(ctx context.Context, opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = &state.Store{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	opts.PollInterval = orDefault(opts.PollInterval, DefaultPollInterval)
	opts.PushDebounce = orDefault(opts.PushDebounce, DefaultPushDebounce)
	opts.VolumeDebounce = orDefault(opts.VolumeDebounce, DefaultVolumeDebounce)
	opts.SeekDebounce = orDefault(opts.SeekDebounce, DefaultSeekDebounce)
	opts.RequestTimeout = orDefault(opts.RequestTimeout, DefaultRequestTimeout)
	opts.PushReconnectMax = orDefault(opts.PushReconnectMax, DefaultPushReconnectMax)
	if opts.NewRemote == nil {
		opts.NewRemote = ClientFactory(opts.RequestTimeout)
	}

	e := &Engine{store: opts.Store, logger: opts.Logger}
	suppress := &Suppressor{}
	e.sched = NewScheduler(opts.Store, opts.Clock, opts.Logger.Named("scheduler"), suppress, SchedulerConfig{
		PollInterval:     opts.PollInterval,
		PushDebounce:     opts.PushDebounce,
		PushReconnectMax: opts.PushReconnectMax,
	}, Hooks{
		RefreshFailed: func(epoch uint64, err error) { e.conn.handleRefreshFailure(epoch, err) },
		PushChanged:   func(epoch uint64, up bool) { e.conn.handlePushChange(epoch, up) },
	})
	e.conn = NewConnection(ctx, opts.Store, e.sched, opts.NewRemote, opts.Logger.Named("connection"))
	e.dispatch = NewDispatcher(opts.Store, e.sched, suppress, opts.Clock, opts.Logger.Named("dispatcher"), opts.VolumeDebounce, opts.SeekDebounce)
	return e
}

// Store returns the snapshot store.
func (e *Engine) Store() *state.Store { return e.store }

// Actions returns the command dispatcher.
func (e *Engine) Actions() *Dispatcher { return e.dispatch }

// Scheduler returns the synchronization scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Connect probes sess and starts synchronization on success.
func (e *Engine) Connect(ctx context.Context, sess session.Session) (state.Status, error) {
	return e.conn.Probe(ctx, sess)
}

// Reconnect re-probes the active session, if any.
func (e *Engine) Reconnect(ctx context.Context, fallback session.Session) (state.Status, error) {
	if sess, ok := e.conn.Session(); ok {
		return e.conn.Probe(ctx, sess)
	}
	return e.conn.Probe(ctx, fallback)
}

// Disconnect tears down the active connection.
func (e *Engine) Disconnect() error {
	return e.conn.Disconnect()
}

// ClearSession removes the persisted session and disconnects. Both steps
// always run.
func (e *Engine) ClearSession(store SessionClearer) error {
	var clearErr error
	if store != nil {
		if err := store.Clear(); err != nil {
			clearErr = fmt.Errorf("clear session: %w", err)
		}
	}
	return errors.Join(clearErr, e.conn.Disconnect())
}

// Close releases the active connection.
func (e *Engine) Close() error {
	return e.conn.Disconnect()
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
