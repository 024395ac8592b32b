// Package styles holds the lipgloss theme shared by the UI components.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all the UI styles.
type Styles struct {
	// Header
	Title      lipgloss.Style
	ViewTab    lipgloss.Style
	ViewActive lipgloss.Style

	// Task rows
	Row        lipgloss.Style
	RowActive  lipgloss.Style
	CheckDone  lipgloss.Style
	CheckOpen  lipgloss.Style
	TitleDone  lipgloss.Style
	DueNormal  lipgloss.Style
	DueToday   lipgloss.Style
	DueOverdue lipgloss.Style
	Tag        lipgloss.Style
	Recur      lipgloss.Style

	// Badges
	PriorityBadge func(priority int) lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusErr  lipgloss.Style

	// Input line
	InputPrompt lipgloss.Style

	Empty     lipgloss.Style
	Separator lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme.
func New() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true).
			Padding(0, 1),

		ViewTab: lipgloss.NewStyle().
			Foreground(Overlay1).
			Padding(0, 1),

		ViewActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(Text),

		RowActive: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0),

		CheckDone: lipgloss.NewStyle().
			Foreground(Green),

		CheckOpen: lipgloss.NewStyle().
			Foreground(Overlay1),

		TitleDone: lipgloss.NewStyle().
			Foreground(Overlay0).
			Strikethrough(true),

		DueNormal: lipgloss.NewStyle().
			Foreground(Subtext0),

		DueToday: lipgloss.NewStyle().
			Foreground(Yellow),

		DueOverdue: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		Tag: lipgloss.NewStyle().
			Foreground(Teal),

		Recur: lipgloss.NewStyle().
			Foreground(Mauve),

		PriorityBadge: func(priority int) lipgloss.Style {
			color, ok := PriorityColors[priority]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(color).
				Bold(priority == 1)
		},

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusErr: lipgloss.NewStyle().
			Foreground(Red),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(Overlay0).
			Italic(true).
			Padding(1, 2),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),
	}
}
