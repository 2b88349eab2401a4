package components

import (
	"imgfilter/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		style:   styles.Theme.Status,
		spinner: s,
	}
}

// SetLoading toggles the spinner. The returned command starts it ticking.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.style = styles.Theme.Status
}

func (s *StatusBar) SetSuccess(text string) {
	s.text = text
	s.style = styles.Theme.Success
}

func (s *StatusBar) SetWarning(text string) {
	s.text = text
	s.style = styles.Theme.Warning
}

func (s *StatusBar) SetError(text string) {
	s.text = text
	s.style = styles.Theme.Error
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.loading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.style.Render(s.spinner.View() + " " + s.text)
	}
	return s.style.Render(s.text)
}
