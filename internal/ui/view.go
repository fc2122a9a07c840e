package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

// renderMain composes header, body and footer.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	header := m.renderHeader(styles)
	footer := m.renderFooter(styles)

	var body string
	switch m.currentView {
	case ViewSearch:
		body = m.renderSearch(styles)
	case ViewLogs:
		body = m.renderLogs(styles)
	default:
		body = m.renderPlayer(styles)
	}

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader(styles Styles) string {
	status := m.snapshot.Status
	badge := styles.PhaseStyle(status.Phase).Render(phaseLabel(status.Phase))
	line := styles.Text.Render(" " + truncate(status.Line(), maxInt(m.width-30, 10)))
	theme := styles.FaintText.Render(m.theme.Name)

	left := badge + line
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(theme)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + theme + "\n"
}

func (m Model) renderPlayer(styles Styles) string {
	snap := m.snapshot
	var b strings.Builder

	if !snap.Status.Online() && snap.Playback == nil {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("  Not connected. Pair with `qbzctl pair`, then press c to reconnect."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying(styles))
	b.WriteString("\n")
	if notice := m.activeNotice(); notice != "" {
		b.WriteString("  ")
		b.WriteString(styles.DangerText.Render(notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderQueue(styles))
	return b.String()
}

func (m Model) renderNowPlaying(styles Styles) string {
	snap := m.snapshot
	var b strings.Builder

	title := "Nothing playing"
	if snap.Track != nil {
		title = trackLine(*snap.Track)
	}
	icon := "⏸"
	if snap.Playback != nil && snap.Playback.IsPlaying {
		icon = "▶"
	}
	b.WriteString("  ")
	b.WriteString(styles.AccentText.Render(icon))
	b.WriteString(" ")
	b.WriteString(styles.Title.Render(truncate(title, maxInt(m.width-6, 10))))
	b.WriteString("\n")

	var duration float64
	if snap.Playback != nil {
		duration = snap.Playback.Duration
	}
	position := snap.Position()
	elapsed := formatClock(position)
	if snap.StagedSeek != nil {
		elapsed = styles.WarningText.Render(elapsed)
	}
	b.WriteString("  ")
	b.WriteString(m.progress.ViewAs(progressRatio(position, duration)))
	b.WriteString(" ")
	b.WriteString(elapsed)
	b.WriteString(styles.FaintText.Render(" / " + formatClock(duration)))
	b.WriteString("\n")

	volume := "vol " + volumePercent(snap.Volume())
	if snap.StagedVolume != nil {
		volume = styles.WarningText.Render(volume)
	} else {
		volume = styles.MutedText.Render(volume)
	}
	b.WriteString("  ")
	b.WriteString(volume)
	b.WriteString(styles.FaintText.Render("  ·  "))
	b.WriteString(styles.MutedText.Render(modesLine(snap.Queue)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderQueue(styles Styles) string {
	q := m.snapshot.Queue
	var b strings.Builder

	heading := "Queue"
	if q != nil && q.TotalTracks > 0 {
		heading = fmt.Sprintf("Queue (%d)", q.TotalTracks)
	}
	b.WriteString("  ")
	b.WriteString(styles.AccentText.Bold(true).Render(heading))
	if m.snapshot.QueueStale() {
		b.WriteString(styles.WarningText.Render("  stale"))
	}
	b.WriteString("\n")

	if q == nil || (len(q.Upcoming) == 0 && len(q.History) == 0) {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render("Queue is empty"))
		b.WriteString("\n")
		return b.String()
	}

	width := maxInt(m.width-6, 10)
	if n := len(q.History); n > 0 {
		start := maxInt(n-3, 0)
		for _, t := range q.History[start:] {
			b.WriteString("    ")
			b.WriteString(styles.FaintText.Render(truncate(m.queueLabel(t), width)))
			b.WriteString("\n")
		}
	}
	if q.CurrentTrack != nil {
		b.WriteString("  ")
		b.WriteString(styles.SuccessText.Render("▶ " + truncate(m.queueLabel(*q.CurrentTrack), width)))
		b.WriteString("\n")
	}

	for i, t := range m.visibleUpcoming() {
		row := m.upcomingOffset() + i
		label := padRight(truncate(m.queueLabel(t), width), width)
		if row == m.selectedRow {
			b.WriteString("  ")
			b.WriteString(styles.Selected.Render("› " + label))
		} else {
			b.WriteString("    ")
			b.WriteString(styles.Text.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// visibleUpcoming windows the upcoming list around the selection.
func (m Model) visibleUpcoming() []qbz.Track {
	q := m.snapshot.Queue
	if q == nil {
		return nil
	}
	start := m.upcomingOffset()
	end := minInt(start+m.queueRows(), len(q.Upcoming))
	return q.Upcoming[start:end]
}

func (m Model) upcomingOffset() int {
	rows := m.queueRows()
	if m.selectedRow < rows {
		return 0
	}
	return m.selectedRow - rows + 1
}

func (m Model) queueRows() int {
	// header, now playing block, notice, queue heading, history, current, footer
	return maxInt(m.height-16, 3)
}

func (m Model) queueLabel(t qbz.Track) string {
	if m.width < LayoutCompactWidth {
		t.Album = ""
	}
	return trackLine(t) + "  " + formatClock(float64(t.DurationSecs))
}

func (m Model) renderSearch(styles Styles) string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.searchPending:
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render("Searching..."))
		b.WriteString("\n")
	case len(m.searchResults) == 0 && m.searchInput.Value() != "" && !m.searchInput.Focused():
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render("No results"))
		b.WriteString("\n")
	}

	width := maxInt(m.width-6, 10)
	for i, res := range m.searchResults {
		label := padRight(truncate(res.label, width), width)
		if i == m.searchRow && !m.searchInput.Focused() {
			b.WriteString("  ")
			b.WriteString(styles.Selected.Render("› " + label))
		} else {
			b.WriteString("    ")
			b.WriteString(styles.Text.Render(label))
		}
		b.WriteString("\n")
	}

	if notice := m.activeNotice(); notice != "" {
		b.WriteString("\n  ")
		b.WriteString(styles.DangerText.Render(notice))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLogs(styles Styles) string {
	switch {
	case m.logPath == "":
		return styles.FaintText.Render("  File logging is disabled")
	case m.logErr != nil:
		return styles.DangerText.Render("  Failed to read log: " + m.logErr.Error())
	case len(m.logLines) == 0:
		return styles.FaintText.Render("  No log entries yet")
	}
	return m.logViewport.View()
}

func (m *Model) updateLogViewport() {
	if len(m.logLines) == 0 {
		return
	}
	atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderFooter(styles Styles) string {
	line := m.help.ShortHelpView(m.keys.ShortHelp())
	if !m.snapshot.LastUpdated.IsZero() {
		line += styles.FaintText.Render("  updated " + m.snapshot.LastUpdated.Format("15:04:05"))
	}
	return line
}

// activeNotice returns the last action error while it is still fresh.
func (m Model) activeNotice() string {
	snap := m.snapshot
	if snap.Notice == "" {
		return ""
	}
	if !snap.NoticeAt.IsZero() && time.Since(snap.NoticeAt) > NoticeTTL {
		return ""
	}
	return snap.Notice
}

func phaseLabel(p state.Phase) string {
	return strings.ToUpper(p.String())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
