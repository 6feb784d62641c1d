package board

import "github.com/charmbracelet/lipgloss"

// Colors used in the board viewer.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the board viewer.
type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Lane         lipgloss.Style
	LaneFocused  lipgloss.Style
	LaneTitle    lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardID       lipgloss.Style
	Detail       lipgloss.Style
	Help         lipgloss.Style
	Error        lipgloss.Style
	Empty        lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Subtitle: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginBottom(1),
		Lane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1),
		LaneFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		LaneTitle: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			MarginBottom(1),
		CardSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			MarginBottom(1),
		CardID: lipgloss.NewStyle().
			Bold(true),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Empty: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
	}
}
