package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

// formatClock renders seconds as m:ss, or h:mm:ss past an hour. Negative or
// non-finite input renders as --:--.
func formatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "--:--"
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// progressRatio returns position/duration clamped to [0,1].
func progressRatio(position, duration float64) float64 {
	if duration <= 0 || math.IsNaN(position) {
		return 0
	}
	return math.Min(math.Max(position/duration, 0), 1)
}

func volumePercent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(math.Min(math.Max(v, 0), 1)*100)))
}

// trackLine renders "Title · Artist · Album", skipping empty parts.
func trackLine(t qbz.Track) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Title, t.Artist, t.Album} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Track %d", t.ID)
	}
	return strings.Join(parts, " · ")
}

func modesLine(q *state.Queue) string {
	if q == nil {
		return "shuffle off · repeat off"
	}
	return fmt.Sprintf("shuffle %s · repeat %s", ternary(q.Shuffle, "on", "off"), strings.ToLower(q.Repeat.String()))
}

// upcomingIndex maps a row of the upcoming list onto the absolute queue
// index the device expects.
func upcomingIndex(q *state.Queue, row int) int {
	current := -1
	if q != nil && q.CurrentIndex != nil {
		current = *q.CurrentIndex
	}
	return current + 1 + row
}

// searchResult is one selectable search row.
type searchResult struct {
	label   string
	albumID string
	track   *qbz.Track
}

func flattenSearch(res *qbz.SearchResponse) []searchResult {
	if res == nil {
		return nil
	}
	out := make([]searchResult, 0, len(res.Albums.Items)+len(res.Tracks.Items))
	for _, a := range res.Albums.Items {
		label := "Album  " + a.Title
		if a.Artist.Name != "" {
			label += " · " + a.Artist.Name
		}
		out = append(out, searchResult{label: label, albumID: a.ID})
	}
	for _, t := range res.Tracks.Items {
		track := t.QueueTrack()
		out = append(out, searchResult{
			label: fmt.Sprintf("Track  %s  %s", trackLine(track), formatClock(float64(t.Duration))),
			track: &track,
		})
	}
	return out
}
