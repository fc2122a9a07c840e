// Package app is the composition root for qbzctl.
//
// Setup loads configuration, builds the zap logger, opens the session store
// and constructs the engine. Run then connects with the stored session,
// starts the session file watcher and hands the engine's store and
// dispatcher to the TUI, blocking until the user quits or the context is
// cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml + QBZCTL_* env
//	       ├─────> logging.New()          JSON log file
//	       ├─────> session.NewStore()     Stored credentials
//	       ├─────> engine.New()           Connection, scheduler, dispatcher
//	       ├─────> Engine.Connect()       Probe the stored session
//	       ├─────> StartSessionWatcher()  Re-probe on session file changes
//	       └─────> ui.Run()               TUI (blocks)
//
// # Subcommands
//
// Pair, Unpair, Status, PairingPayload and Search back the one-shot CLI
// commands. They share Setup with the TUI but log to stderr.
//
// # Error Handling
//
// Configuration, logger and session store failures are fatal and returned
// from Setup. A failed initial connect is not: the TUI starts disconnected
// and shows the reason in its status line.
package app
