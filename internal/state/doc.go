// Package state holds the shared snapshot of what the remote player is doing.
//
// # Overview
//
// The Store is the single piece of mutable state shared between the engine's
// refresh paths and the UI. The engine writes playback, track, queue and
// connection status; the UI reads copies through Snapshot on its own tick.
//
//	Scheduler / Dispatcher:         UI:
//	┌────────────────────┐         ┌────────────────┐
//	│ ApplyNowPlaying()  │         │                │
//	│ ApplyQueue()       │────────→│ Snapshot()     │
//	│ Fail() / Connect() │ (mutex) │   render       │
//	└────────────────────┘         └────────────────┘
//
// # Epochs
//
// Every SetProbing, Connect and Disconnect advances the epoch and clears all
// remote data. Writers pass the epoch they captured when their request
// started; a mismatch means the connection they belonged to is gone and the
// write is dropped. This keeps a slow refresh from a previous connection from
// repopulating the UI after a disconnect.
//
// # Atomic Disconnect
//
// Fail and Disconnect replace status and clear playback, track, queue and
// staged values under one lock, so no reader observes a disconnected status
// alongside stale data or the reverse.
//
// # Staged Values
//
// Volume and seek changes are shown immediately through StagedVolume and
// StagedSeek. Snapshot.Volume and Snapshot.Position prefer the staged value.
// Staging returns a token. Once the command is sent the dispatcher settles
// that token; the next now-playing result then drops the staged value. A
// settle whose token no longer names the staged value is ignored, so a value
// staged while an older send was in flight stays on screen.
//
// # Defensive Copying
//
// Snapshot deep-copies pointers and slices. Callers may mutate what they get.
package state
