package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vicrodh/qbz-control/internal/session"
	"github.com/vicrodh/qbz-control/internal/state"
)

const (
	defaultDeviceName    = "QBZ"
	defaultDeviceVersion = "-"
	notConnectedMessage  = "Not connected"
	pushOfflineMessage   = "push offline"
)

// Connection owns the connection status. It probes the device, starts the
// scheduler on success and tears everything down on failure or request.
type Connection struct {
	base    context.Context
	store   *state.Store
	sched   *Scheduler
	factory RemoteFactory
	logger  *zap.SugaredLogger

	// seq stamps probes; only the latest initiated one may apply its result.
	seq atomic.Uint64

	mu      sync.Mutex
	remote  Remote
	session session.Session
	epoch   uint64
	cancel  context.CancelFunc
}

// NewConnection wires a Connection. base bounds every connection context.
func NewConnection(base context.Context, store *state.Store, sched *Scheduler, factory RemoteFactory, logger *zap.SugaredLogger) *Connection {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Connection{
		base:    base,
		store:   store,
		sched:   sched,
		factory: factory,
		logger:  logger,
	}
}

// Probe checks the device described by sess and, if it acknowledges remote
// control, connects and starts synchronization. Overlapping probes are
// resolved by start order: a probe whose result arrives after a newer probe
// began returns ErrProbeSuperseded and changes nothing.
func (c *Connection) Probe(ctx context.Context, sess session.Session) (state.Status, error) {
	id := c.seq.Add(1)
	sess = sess.Normalize()

	if !sess.Complete() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if id != c.seq.Load() {
			return c.store.Status(), ErrProbeSuperseded
		}
		c.releaseLocked()
		c.store.Disconnect(StatusMessage(ErrConfigurationMissing))
		return c.store.Status(), ErrConfigurationMissing
	}

	c.mu.Lock()
	if id == c.seq.Load() {
		c.releaseLocked()
		c.store.SetProbing(sess.Address)
	}
	c.mu.Unlock()

	c.logger.Infow("probing device", "address", sess.Address, "probe", id)
	remote, err := c.factory(sess)
	var ping *pingResult
	if err == nil {
		ping = c.ping(ctx, remote)
	} else {
		ping = &pingResult{err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.seq.Load() {
		c.logger.Debugw("discarding superseded probe", "probe", id)
		return c.store.Status(), ErrProbeSuperseded
	}

	if ping.err != nil {
		cerr := &ConnectionError{Cause: ping.err}
		c.logger.Warnw("probe failed", "address", sess.Address, "error", ping.err)
		c.store.Disconnect(StatusMessage(cerr))
		return c.store.Status(), cerr
	}
	if !ping.ok {
		c.logger.Warnw("remote control not available", "address", sess.Address)
		c.store.Disconnect(StatusMessage(ErrRemoteUnavailable))
		return c.store.Status(), ErrRemoteUnavailable
	}

	epoch := c.store.Connect(sess.Address, ping.name, ping.version)
	connCtx, cancel := context.WithCancel(c.base)
	c.remote, c.session, c.epoch, c.cancel = remote, sess, epoch, cancel
	c.logger.Infow("connected", "device", ping.name, "version", ping.version, "epoch", epoch)
	c.sched.Start(connCtx, remote, epoch)
	return c.store.Status(), nil
}

type pingResult struct {
	ok      bool
	name    string
	version string
	err     error
}

func (c *Connection) ping(ctx context.Context, remote Remote) *pingResult {
	resp, err := remote.Ping(ctx)
	if err != nil {
		return &pingResult{err: err}
	}
	if resp == nil || !resp.OK {
		return &pingResult{}
	}
	res := &pingResult{ok: true, name: resp.Name, version: resp.Version}
	if res.name == "" {
		res.name = defaultDeviceName
	}
	if res.version == "" {
		res.version = defaultDeviceVersion
	}
	return res
}

// Session returns the session of the active connection.
func (c *Connection) Session() (session.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.remote != nil
}

// Disconnect tears down the active connection and invalidates in-flight
// probes.
func (c *Connection) Disconnect() error {
	c.seq.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.teardownLocked()
	c.store.Disconnect(notConnectedMessage)
	if err != nil {
		c.logger.Errorw("teardown failed", "error", err)
	}
	return err
}

// handleRefreshFailure disconnects after a now-playing refresh failure. The
// store is cleared synchronously; timers and the push channel are released
// on a separate goroutine because the caller may be the poll loop itself.
func (c *Connection) handleRefreshFailure(epoch uint64, err error) {
	if !c.store.Fail(epoch, StatusMessage(err)) {
		return
	}
	c.logger.Warnw("connection lost", "error", err, "epoch", epoch)
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.remote == nil || c.epoch != epoch {
			return
		}
		c.releaseLocked()
	}()
}

// handlePushChange moves a live connection between connected and degraded as
// the push channel drops and recovers. It must not take c.mu: teardown holds
// it while waiting for the push loop to exit.
func (c *Connection) handlePushChange(epoch uint64, up bool) {
	if up {
		if c.store.ClearDegraded(epoch) {
			c.logger.Infow("push channel restored", "epoch", epoch)
		}
		return
	}
	if c.store.SetDegraded(epoch, pushOfflineMessage) {
		c.logger.Warnw("connection degraded", "reason", pushOfflineMessage, "epoch", epoch)
	}
}

func (c *Connection) releaseLocked() {
	if err := c.teardownLocked(); err != nil {
		c.logger.Errorw("teardown failed", "error", err)
	}
}

// teardownLocked releases the poll timer, debounce timers and push channel,
// in that order, then cancels in-flight requests. Every step runs even if
// an earlier one fails or panics.
func (c *Connection) teardownLocked() error {
	if c.remote == nil && c.cancel == nil {
		return nil
	}
	cancel := c.cancel
	steps := []struct {
		name string
		fn   func() error
	}{
		{"stop polling", func() error { c.sched.StopPolling(); return nil }},
		{"cancel debounce", func() error { c.sched.CancelDebounce(); return nil }},
		{"close push", c.sched.ClosePush},
		{"detach", func() error { c.sched.Detach(); return nil }},
		{"cancel requests", func() error {
			if cancel != nil {
				cancel()
			}
			return nil
		}},
	}
	var errs []error
	for _, step := range steps {
		if err := runStep(step.name, step.fn); err != nil {
			errs = append(errs, err)
		}
	}
	c.remote, c.cancel, c.epoch = nil, nil, 0
	c.session = session.Session{}
	return errors.Join(errs...)
}

func runStep(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
