// Package ui provides the terminal styling for the mathlab CLI, with light
// and dark themes matching the math lab page.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette of the math lab page.
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f7f8fc")
	LightForeground = lipgloss.Color("#1d2433")
	LightPrimary    = lipgloss.Color("#3559e0")
	LightAccent     = lipgloss.Color("#0f9d8a")
	LightMuted      = lipgloss.Color("#6b7385")
	LightBorder     = lipgloss.Color("#d5d9e3")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#10131c")
	DarkForeground = lipgloss.Color("#e8ebf2")
	DarkPrimary    = lipgloss.Color("#7d97ff")
	DarkAccent     = lipgloss.Color("#35c9b3")
	DarkMuted      = lipgloss.Color("#8c93a6")
	DarkBorder     = lipgloss.Color("#2b3142")
	DarkCard       = lipgloss.Color("#181c28")

	// Semantic Colors (same in both modes)
	Danger = lipgloss.Color("#e53935")
	Warn   = lipgloss.Color("#f5a623")
	Good   = lipgloss.Color("#2e9e5b")
)

// Theme holds the current color scheme
type Theme struct {
	Name       string
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks dark when the terminal reports a dark background through
// COLORFGBG or MATHLAB_DARK_MODE=1, and light otherwise.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are dark backgrounds
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
		}
	}
	if os.Getenv("MATHLAB_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeByName resolves a configured theme: light, dark or auto.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "auto":
		return DetectTheme()
	default:
		return LightTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style

	// Result, Warn and Danger mirror the page's result/warn/danger lines.
	Result lipgloss.Style
	Warn   lipgloss.Style
	Danger lipgloss.Style

	Prompt    lipgloss.Style
	UserInput lipgloss.Style
	Card      lipgloss.Style
	Input     lipgloss.Style
	Divider   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Result: lipgloss.NewStyle().
			Foreground(Good).
			Bold(true),

		Warn: lipgloss.NewStyle().
			Foreground(Warn),

		Danger: lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Card: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
