// Package engine keeps a local picture of a remote QBZ player in step with
// the device and forwards user commands to it.
//
// # Components
//
//   - Connection probes a session, owns the connection status and tears
//     everything down on failure or request.
//   - Scheduler refreshes the now-playing and queue snapshots from a poll
//     ticker and from debounced push signals.
//   - Dispatcher sends transport, seek, volume, queue, mode and search
//     commands and reconciles the snapshots afterwards.
//   - Suppressor and Debouncer are the timing primitives the other three
//     share.
//
// Engine wires all of them to one state.Store.
//
// # Refresh Rules
//
// Background refreshes (poll ticks, push signals) are skipped while a user
// action is in flight, and their results are dropped if an action began
// while they were outstanding. Forced refreshes issued after an action
// always apply. At most one fetch per path is outstanding; background
// requests skip a busy path and forced requests wait for it.
//
// A failed now-playing refresh disconnects and clears every snapshot in one
// step. A failed queue refresh keeps the previous queue and is counted.
//
// # Push Channel
//
// The push channel is opened after connecting and re-dialed with
// exponential backoff. While it is down the status is Degraded and polling
// carries on alone.
//
// # Clock
//
// All timers come from a k8s.io/utils/clock value so tests can drive the
// engine with a fake clock.
package engine
