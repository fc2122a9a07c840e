package ui

import (
	"math"
	"testing"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{65, "1:05"},
		{599, "9:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-1, "--:--"},
		{math.NaN(), "--:--"},
		{math.Inf(1), "--:--"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressRatio(t *testing.T) {
	if got := progressRatio(30, 120); got != 0.25 {
		t.Fatalf("progressRatio(30,120) = %v, want 0.25", got)
	}
	if got := progressRatio(10, 0); got != 0 {
		t.Fatalf("zero duration should render empty, got %v", got)
	}
	if got := progressRatio(200, 100); got != 1 {
		t.Fatalf("overshoot should clamp to 1, got %v", got)
	}
	if got := progressRatio(-5, 100); got != 0 {
		t.Fatalf("negative position should clamp to 0, got %v", got)
	}
}

func TestVolumePercent(t *testing.T) {
	for in, want := range map[float64]string{0: "0%", 0.5: "50%", 0.254: "25%", 1: "100%", 1.7: "100%", -0.2: "0%"} {
		if got := volumePercent(in); got != want {
			t.Errorf("volumePercent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTrackLine(t *testing.T) {
	got := trackLine(qbz.Track{ID: 7, Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue"})
	if got != "So What · Miles Davis · Kind of Blue" {
		t.Fatalf("trackLine = %q", got)
	}
	if got := trackLine(qbz.Track{ID: 7, Title: "Intro", Artist: "  "}); got != "Intro" {
		t.Fatalf("blank parts should be skipped, got %q", got)
	}
	if got := trackLine(qbz.Track{ID: 42}); got != "Track 42" {
		t.Fatalf("untitled track = %q, want Track 42", got)
	}
}

func TestModesLine(t *testing.T) {
	if got := modesLine(nil); got != "shuffle off · repeat off" {
		t.Fatalf("modesLine(nil) = %q", got)
	}
	got := modesLine(&state.Queue{Shuffle: true, Repeat: qbz.RepeatOne})
	if got != "shuffle on · repeat one" {
		t.Fatalf("modesLine = %q", got)
	}
}

func TestUpcomingIndex(t *testing.T) {
	current := 4
	q := &state.Queue{CurrentIndex: &current}
	if got := upcomingIndex(q, 0); got != 5 {
		t.Fatalf("first upcoming row = %d, want 5", got)
	}
	if got := upcomingIndex(q, 2); got != 7 {
		t.Fatalf("third upcoming row = %d, want 7", got)
	}
	if got := upcomingIndex(&state.Queue{}, 0); got != 0 {
		t.Fatalf("without a current index the first row is 0, got %d", got)
	}
	if got := upcomingIndex(nil, 1); got != 1 {
		t.Fatalf("nil queue row 1 = %d, want 1", got)
	}
}

func TestFlattenSearch(t *testing.T) {
	if flattenSearch(nil) != nil {
		t.Fatal("nil response should flatten to nil")
	}
	res := &qbz.SearchResponse{
		Albums: qbz.SearchPage[qbz.SearchAlbum]{Items: []qbz.SearchAlbum{
			{ID: "a1", Title: "Kind of Blue", Artist: qbz.NamedRef{Name: "Miles Davis"}},
		}},
		Tracks: qbz.SearchPage[qbz.SearchTrack]{Items: []qbz.SearchTrack{
			{ID: 9, Title: "Blue in Green", Duration: 337},
		}},
	}
	rows := flattenSearch(res)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].albumID != "a1" || rows[0].track != nil {
		t.Fatalf("albums should come first: %+v", rows[0])
	}
	if rows[0].label != "Album  Kind of Blue · Miles Davis" {
		t.Fatalf("album label = %q", rows[0].label)
	}
	if rows[1].track == nil || rows[1].track.ID != 9 {
		t.Fatalf("second row should be the track: %+v", rows[1])
	}
	if rows[1].label != "Track  Blue in Green  5:37" {
		t.Fatalf("track label = %q", rows[1].label)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("short strings stay intact, got %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
}
