package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which album names are dropped
	// from queue rows.
	LayoutCompactWidth = 80

	// LayoutMaxProgressWidth caps the progress bar width.
	LayoutMaxProgressWidth = 72
)

// Log pane limits.
const (
	// LogTailLines is how many log entries the log pane loads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the snapshot store.
	DefaultUIInterval = 250 * time.Millisecond

	// NoticeTTL is how long an action error stays on screen.
	NoticeTTL = 6 * time.Second

	// SeekStep and VolumeStep are the arrow and +/- increments.
	SeekStep   = 10.0
	VolumeStep = 0.05
)
