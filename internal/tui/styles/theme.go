package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Filename lipgloss.Style
	Progress lipgloss.Style
	Info     lipgloss.Style
	Label    lipgloss.Style
	Prompt   lipgloss.Style
	Match    lipgloss.Style
	Status   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Filename: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#4F4FB7")).
		Padding(0, 1),
	Progress: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Info: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Padding(0, 1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#81A1C1")).
		Width(10),
	Prompt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D08770")).
		Bold(true),
	Match: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00")),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EBCB8B")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")).
		Bold(true),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
}
