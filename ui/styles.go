// Package ui is the terminal front end of the blog screen.
package ui

import (
	"pocketblog/controllers"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds one color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

var (
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#ffffff"),
		Foreground: lipgloss.Color("#1f2328"),
		Primary:    lipgloss.Color("#0969da"),
		Accent:     lipgloss.Color("#8250df"),
		Muted:      lipgloss.Color("#656d76"),
		Border:     lipgloss.Color("#d0d7de"),
	}
}

func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#0d1117"),
		Foreground: lipgloss.Color("#e6edf3"),
		Primary:    lipgloss.Color("#58a6ff"),
		Accent:     lipgloss.Color("#d2a8ff"),
		Muted:      lipgloss.Color("#7d8590"),
		Border:     lipgloss.Color("#30363d"),
	}
}

// ThemeFor maps the screen's theme onto a palette.
func ThemeFor(t controllers.Theme) Theme {
	if t == controllers.ThemeDark {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	App      lipgloss.Style
	Header   lipgloss.Style
	Toggle   lipgloss.Style
	Welcome  lipgloss.Style
	Card     lipgloss.Style
	Title    lipgloss.Style
	Date     lipgloss.Style
	Body     lipgloss.Style
	Page     lipgloss.Style
	Current  lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Help     lipgloss.Style
	Disabled lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Toggle: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Welcome: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Italic(true).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Border).
			PaddingLeft(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Date: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Page: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Current: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Focused: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(Warning),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),

		Disabled: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}
