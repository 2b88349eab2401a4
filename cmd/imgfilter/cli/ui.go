package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorTheme represents a set of colors for the CLI
type ColorTheme struct {
	Name       string
	Success    lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Info       lipgloss.Color
	Header     lipgloss.Color
	Logo       lipgloss.Color
	BoxOutline lipgloss.Color
}

var (
	DefaultTheme = ColorTheme{
		Name:       "default",
		Success:    lipgloss.Color("#73F59F"),
		Error:      lipgloss.Color("#FF5F5F"),
		Warning:    lipgloss.Color("#EBCB8B"),
		Info:       lipgloss.Color("#81A1C1"),
		Header:     lipgloss.Color("#7B61FF"),
		Logo:       lipgloss.Color("#7B61FF"),
		BoxOutline: lipgloss.Color("#626262"),
	}

	GruvboxTheme = ColorTheme{
		Name:       "gruvbox",
		Success:    lipgloss.Color("142"),
		Error:      lipgloss.Color("167"),
		Warning:    lipgloss.Color("214"),
		Info:       lipgloss.Color("109"),
		Header:     lipgloss.Color("208"),
		Logo:       lipgloss.Color("208"),
		BoxOutline: lipgloss.Color("142"),
	}

	AvailableThemes = []ColorTheme{DefaultTheme, GruvboxTheme}

	CurrentTheme = DefaultTheme
)

// SetTheme sets the current theme by name
func SetTheme(name string) bool {
	for _, theme := range AvailableThemes {
		if theme.Name == name {
			CurrentTheme = theme
			return true
		}
	}
	return false
}

func style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Success formats a success message
func Success(message string) string {
	return style(CurrentTheme.Success).Render("✓ " + message)
}

// Error formats an error message
func Error(message string) string {
	return style(CurrentTheme.Error).Render("✗ " + message)
}

// Warning formats a warning message
func Warning(message string) string {
	return style(CurrentTheme.Warning).Render("! " + message)
}

// Info formats an informational message
func Info(message string) string {
	return style(CurrentTheme.Info).Render(message)
}

// Header formats a section header with an underline
func Header(message string) string {
	return style(CurrentTheme.Header).Bold(true).Render(message) + "\n" +
		strings.Repeat("─", lipgloss.Width(message))
}

// DrawBox draws a rounded box around content
func DrawBox(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.BoxOutline).
		Padding(0, 1).
		Render(content)
}

// DrawLogo renders the application logo.
func DrawLogo() string {
	logo := `
 _                    __ _ _ _
(_)_ __ ___   __ _   / _(_) | |_ ___ _ __
| | '_ ' _ \ / _' | | |_| | | __/ _ \ '__|
| | | | | | | (_| | |  _| | | ||  __/ |
|_|_| |_| |_|\__, | |_| |_|_|\__\___|_|
             |___/`
	return style(CurrentTheme.Logo).Render(logo)
}
