package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type palette struct {
	green, yellow, red, blue, purple, dim, fg, header lipgloss.Color
}

// Gruvbox-inspired palettes.
var (
	darkPalette = palette{
		green:  "#8ec07c",
		yellow: "#fabd2f",
		red:    "#fb4934",
		blue:   "#83a598",
		purple: "#d3869b",
		dim:    "#928374",
		fg:     "#ebdbb2",
		header: "#fe8019",
	}
	lightPalette = palette{
		green:  "#427b58",
		yellow: "#b57614",
		red:    "#9d0006",
		blue:   "#076678",
		purple: "#8f3f71",
		dim:    "#7c6f64",
		fg:     "#3c3836",
		header: "#af3a03",
	}
)

var (
	ColorGreen  lipgloss.Color
	ColorYellow lipgloss.Color
	ColorRed    lipgloss.Color
	ColorBlue   lipgloss.Color
	ColorPurple lipgloss.Color
	ColorDim    lipgloss.Color
	ColorFg     lipgloss.Color
	ColorHeader lipgloss.Color
)

var (
	StyleGreen  lipgloss.Style
	StyleYellow lipgloss.Style
	StyleRed    lipgloss.Style
	StyleBlue   lipgloss.Style
	StylePurple lipgloss.Style
	StyleDim    lipgloss.Style
	StyleFg     lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style
)

// markdownStyle is the glamour standard style matching the active palette.
var markdownStyle = "dark"

func init() {
	applyPalette(darkPalette)
}

// SetTheme selects the palette once at startup. "auto" asks the terminal
// for its background colour.
func SetTheme(theme string) {
	dark := true
	switch theme {
	case config.ThemeLight:
		dark = false
	case config.ThemeAuto:
		dark = termenv.HasDarkBackground()
	}
	if dark {
		applyPalette(darkPalette)
		markdownStyle = "dark"
		return
	}
	applyPalette(lightPalette)
	markdownStyle = "light"
}

func applyPalette(p palette) {
	ColorGreen, ColorYellow, ColorRed, ColorBlue = p.green, p.yellow, p.red, p.blue
	ColorPurple, ColorDim, ColorFg, ColorHeader = p.purple, p.dim, p.fg, p.header

	StyleGreen = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
}

// StatusStyle returns the colour for a board column or status badge.
func StatusStyle(s domain.ResolvedStatus) lipgloss.Style {
	switch s {
	case domain.ResolvedOverdue:
		return StyleRed
	case domain.ResolvedUrgent:
		return StyleHeader
	case domain.ResolvedUpcomingSoon:
		return StyleYellow
	case domain.ResolvedInProgress:
		return StyleBlue
	case domain.ResolvedCompleted:
		return StyleDim
	default:
		return StyleFg
	}
}

// StatusPill renders a resolved status such as "● Overdue".
func StatusPill(s domain.ResolvedStatus) string {
	icon := "●"
	switch s {
	case domain.ResolvedCompleted:
		icon = "✔"
	case domain.ResolvedScheduled:
		icon = "○"
	}
	return StatusStyle(s).Render(icon + " " + s.Label())
}

// PriorityBadge renders a task priority.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityLow:
		return StyleDim.Render("▽ low")
	default:
		return StyleYellow.Render("● medium")
	}
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// ErrorLine is the status-line rendering of a failed action.
func ErrorLine(msg string) string {
	return StyleRed.Render("✖ " + msg)
}

// SuccessLine is the status-line rendering of a completed action.
func SuccessLine(msg string) string {
	return StyleGreen.Render("✔") + " " + msg
}
