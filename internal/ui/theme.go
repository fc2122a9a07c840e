package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vicrodh/qbz-control/internal/state"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Border string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    fg(t.Text).Background(lipgloss.Color(t.Surface)),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Title:  fg(t.Text).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

// PhaseColor returns the badge color for a connection phase.
func (t Theme) PhaseColor(phase state.Phase) string {
	switch phase {
	case state.PhaseConnected:
		return t.Success
	case state.PhaseDegraded:
		return t.Warning
	case state.PhaseProbing:
		return t.Info
	default:
		return t.Danger
	}
}

// PhaseStyle returns a badge style for the given connection phase.
func (s Styles) PhaseStyle(phase state.Phase) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.PhaseColor(phase))).
		Bold(true).
		Padding(0, 1)
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula":    draculaTheme(),
	"Catppuccin": catppuccinTheme(),
	"Gruvbox":    gruvboxTheme(),
	"Nord":       nordTheme(),
}

var themeOrder = []string{"Dracula", "Catppuccin", "Gruvbox", "Nord"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func draculaTheme() Theme {
	// https://draculatheme.com/contribute
	return Theme{
		Name:          "Dracula",
		Background:    "#21222c",
		Surface:       "#282a36",
		SurfaceAlt:    "#343746",
		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",
		Border:        "#6272a4",
		Text:          "#f8f8f2",
		Muted:         "#6272a4",
		Faint:         "#4d5473",
		Accent:        "#bd93f9",
		Success:       "#50fa7b",
		Warning:       "#f1fa8c",
		Danger:        "#ff5555",
		Info:          "#8be9fd",
	}
}

func catppuccinTheme() Theme {
	// Mocha flavor: https://catppuccin.com/palette
	return Theme{
		Name:          "Catppuccin",
		Background:    "#11111b", // crust
		Surface:       "#1e1e2e", // base
		SurfaceAlt:    "#313244", // surface0
		SelectionBg:   "#45475a", // surface1
		SelectionText: "#cdd6f4", // text
		Border:        "#585b70", // surface2
		Text:          "#cdd6f4",
		Muted:         "#a6adc8", // subtext0
		Faint:         "#6c7086", // overlay0
		Accent:        "#cba6f7", // mauve
		Success:       "#a6e3a1", // green
		Warning:       "#f9e2af", // yellow
		Danger:        "#f38ba8", // red
		Info:          "#89dceb", // sky
	}
}

func gruvboxTheme() Theme {
	// Dark, medium contrast: https://github.com/morhetz/gruvbox
	return Theme{
		Name:          "Gruvbox",
		Background:    "#1d2021", // bg0_h
		Surface:       "#282828", // bg0
		SurfaceAlt:    "#3c3836", // bg1
		SelectionBg:   "#504945", // bg2
		SelectionText: "#fbf1c7", // fg0
		Border:        "#665c54", // bg3
		Text:          "#ebdbb2", // fg1
		Muted:         "#a89984", // fg4
		Faint:         "#7c6f64", // bg4
		Accent:        "#fe8019", // orange
		Success:       "#b8bb26", // green
		Warning:       "#fabd2f", // yellow
		Danger:        "#fb4934", // red
		Info:          "#83a598", // blue
	}
}

func nordTheme() Theme {
	// https://www.nordtheme.com/docs/colors-and-palettes
	return Theme{
		Name:          "Nord",
		Background:    "#242933",
		Surface:       "#2e3440", // nord0
		SurfaceAlt:    "#3b4252", // nord1
		SelectionBg:   "#434c5e", // nord2
		SelectionText: "#eceff4", // nord6
		Border:        "#4c566a", // nord3
		Text:          "#e5e9f0", // nord5
		Muted:         "#d8dee9", // nord4
		Faint:         "#616e88",
		Accent:        "#88c0d0", // nord8
		Success:       "#a3be8c", // nord14
		Warning:       "#ebcb8b", // nord13
		Danger:        "#bf616a", // nord11
		Info:          "#81a1c1", // nord9
	}
}
