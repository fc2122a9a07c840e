package app

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/vicrodh/qbz-control/internal/session"
)

const maxWatchBackoff = 30 * time.Second

// StartSessionWatcher launches a background goroutine that re-probes when
// the session file changes to different credentials, and disconnects when
// it is removed. The watcher is restarted with backoff if it fails. It
// returns immediately.
func StartSessionWatcher(ctx context.Context, env *Env, current session.Session) {
	logger := env.Logger.Named("session")
	var c clock.WithDelayedExecution = clock.RealClock{}
	if env.Clock != nil {
		c = env.Clock
	}
	watch := func(ctx context.Context) error {
		return env.Sessions.Watch(ctx, logger, func(next session.Session) {
			current = applySessionChange(ctx, env, current, next)
		})
	}
	go restartOnFailure(ctx, c, logger, watch)
}

// restartOnFailure runs watch until ctx is done, waiting an exponentially
// growing delay on c after each failure.
func restartOnFailure(ctx context.Context, c clock.WithDelayedExecution, logger *zap.SugaredLogger, watch func(context.Context) error) {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = maxWatchBackoff

	for {
		err := watch(ctx)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		delay := b.NextBackOff()
		logger.Warnw("session watcher stopped", "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return
		case <-c.After(delay):
		}
	}
}

// applySessionChange reacts to a new session file and returns the session
// now in effect.
func applySessionChange(ctx context.Context, env *Env, current, next session.Session) session.Session {
	if next.Same(current) {
		return current
	}
	if !next.Complete() {
		env.Logger.Infow("session removed, disconnecting")
		if err := env.Engine.Disconnect(); err != nil {
			env.Logger.Warnw("disconnect failed", "error", err)
		}
		return next
	}
	env.Logger.Infow("session changed, reconnecting", "address", next.Normalize().Address)
	if _, err := env.Engine.Connect(ctx, next); err != nil {
		env.Logger.Warnw("reconnect failed", "error", err)
	}
	return next
}
