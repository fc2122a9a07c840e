// Package ui provides the terminal remote control for a paired QBZ player.
//
// The UI is a Bubble Tea program. It never talks to the player directly:
// it renders state.Store snapshots on a fixed tick and forwards key presses
// to an Actions implementation (the engine dispatcher in production).
// Blocking actions run as tea.Cmds so the event loop stays responsive;
// seek and volume nudges only stage a value and return immediately.
//
// # Views
//
//   - Player: status badge, now playing, progress, volume, modes and queue.
//     Only upcoming queue rows are selectable; enter plays the row.
//   - Search: a text input backed by the player's catalog search. Enter on
//     an album plays it, enter on a track appends it to the queue.
//   - Logs: a scrollable tail of the structured log file.
//
// # Key Bindings
//
//   - space: Play/pause
//   - n/p: Next/previous track
//   - ←/→: Seek ∓10s
//   - +/-: Volume ±5%
//   - s/r: Toggle shuffle, cycle repeat
//   - j/k, enter: Move and play/add the selection
//   - /: Search
//   - l: Toggle the log pane
//   - c: Reconnect with the saved session
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Quit
package ui
