package tui

import (
	"fmt"
	"path/filepath"

	"imgfilter/internal/analysis"
	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/log"
	"imgfilter/internal/session"
	"imgfilter/internal/tui/common"
	"imgfilter/internal/tui/components"
	"imgfilter/internal/tui/messages"
	"imgfilter/internal/tui/styles"
	"imgfilter/internal/tui/views"
	"imgfilter/internal/watch"
	"imgfilter/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const maxJumpMatches = 5

type Model struct {
	session  *session.Session
	analyzer *analysis.Engine
	events   <-chan watch.Event

	keys   keyMap
	help   help.Model
	input  textinput.Model
	status *components.StatusBar

	// Core state
	mode     common.Mode
	info     *types.ImageInfo
	showInfo bool
	pending  int
	summary  session.Summary
	err      error
}

// Option configures a Model
type Option func(*Model)

// WithWatcher feeds watcher events into the model.
func WithWatcher(events <-chan watch.Event) Option {
	return func(m *Model) {
		m.events = events
	}
}

// WithAnalyzer sets the engine used for the info pane.
func WithAnalyzer(a *analysis.Engine) Option {
	return func(m *Model) {
		m.analyzer = a
	}
}

func New(s *session.Session, opts ...Option) *Model {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "file name"
	input.PromptStyle = styles.Theme.Prompt

	m := &Model{
		session:  s,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		status:   components.NewStatusBar(),
		mode:     common.Normal,
		showInfo: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.analyzer == nil {
		m.analyzer = analysis.NewWithConfig(s.Config())
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.analyzeCurrent(), m.waitForEvent())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.AnalysisCompleteMsg:
		m.status.SetLoading(false)
		if current, err := m.session.Current(); err != nil || current != msg.Path {
			// stale: the cursor moved on while analysing
			return m, nil
		}
		if msg.Error != nil {
			m.info = nil
			m.status.SetWarning("Analysis failed: " + msg.Error.Error())
			return m, nil
		}
		m.info = msg.Info
		return m, nil

	case messages.WatchEventMsg:
		m.pending++
		m.status.SetWarning(fmt.Sprintf("%s %s", filepath.Base(msg.Event.Path), msg.Event.Kind))
		return m, m.waitForEvent()

	case messages.WatchClosedMsg:
		m.events = nil
		return m, nil

	case messages.ErrorMsg:
		return m, m.fail(msg.Err)
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case common.Jump:
		return m.handleJumpKeys(msg)
	case common.Confirm:
		return m.handleConfirmKeys(msg)
	case common.Done:
		return m, tea.Quit
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a, ok := m.keys.action(msg); ok {
		return m, m.apply(a)
	}

	switch {
	case key.Matches(msg, m.keys.Jump):
		m.mode = common.Jump
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Info):
		m.showInfo = !m.showInfo
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleJumpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeJump()
		return m, nil
	case key.Matches(msg, m.keys.Accept):
		matches := m.jumpMatches()
		m.closeJump()
		if len(matches) == 0 {
			m.status.SetWarning("No image matches " + fmt.Sprintf("%q", m.input.Value()))
			return m, nil
		}
		if _, err := m.session.Manager().Seek(matches[0].Index); err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		m.status.SetText("Jumped to " + matches[0].Str)
		return m, m.analyzeCurrent()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeJump() {
	m.mode = common.Normal
	m.input.Blur()
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		return m, m.finish(true)
	case key.Matches(msg, m.keys.No):
		return m, m.finish(false)
	case key.Matches(msg, m.keys.Cancel):
		// back to the last image, nothing decided
		m.mode = common.Normal
		m.status.SetText("")
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// apply sends a to the session. I/O failures end the program.
func (m *Model) apply(a session.Action) tea.Cmd {
	out, err := m.session.Apply(a)
	if err != nil {
		return m.fail(err)
	}

	if out.Written != "" {
		m.status.SetSuccess(fmt.Sprintf("%s → %s", filepath.Base(filepath.Dir(out.Written)), filepath.Base(out.Written)))
	} else {
		m.status.SetText("")
	}

	if out.Finished {
		if !m.session.Config().Settings.ConfirmPurge {
			return m.finish(false)
		}
		m.mode = common.Confirm
		m.summary = m.session.Summary()
		return nil
	}
	return m.analyzeCurrent()
}

func (m *Model) finish(confirm bool) tea.Cmd {
	sum, err := m.session.Finish(confirm)
	m.summary = sum
	if err != nil {
		return m.fail(err)
	}
	m.mode = common.Done
	m.status.SetText("")
	return tea.Quit
}

func (m *Model) reload() tea.Cmd {
	if err := m.session.Reload(); err != nil {
		return m.fail(err)
	}
	m.pending = 0
	if m.session.Manager().Count() == 0 {
		// nothing left to sort; not an error
		log.Warn("No images left in %s", m.session.SourceDir())
		m.mode = common.Done
		m.summary = m.session.Summary()
		m.status.SetWarning("No images left in the folder")
		return tea.Quit
	}
	m.status.SetText(fmt.Sprintf("Reloaded %d image(s)", m.session.Manager().Count()))
	return m.analyzeCurrent()
}

func (m *Model) fail(err error) tea.Cmd {
	log.LogWithError(err).Error("Stopping on error")
	m.err = err
	m.mode = common.Done
	m.summary = m.session.Summary()
	return tea.Quit
}

func (m *Model) analyzeCurrent() tea.Cmd {
	path, err := m.session.Current()
	if err != nil {
		return nil
	}
	m.info = nil
	analyzer := m.analyzer
	analyze := func() tea.Msg {
		info, err := analyzer.Analyze(path)
		return messages.AnalysisCompleteMsg{Path: path, Info: info, Error: err}
	}
	return tea.Batch(m.status.SetLoading(true), analyze)
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.WatchClosedMsg{}
		}
		return messages.WatchEventMsg{Event: ev}
	}
}

func (m *Model) jumpMatches() fuzzy.Matches {
	paths := m.session.Manager().Paths()
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return fuzzy.Find(m.input.Value(), names)
}

// Getters used by the views

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) CurrentName() string {
	path, err := m.session.Current()
	if err != nil {
		return images.NoImages
	}
	return filepath.Base(path)
}

func (m *Model) Progress() string {
	return m.session.Progress()
}

func (m *Model) SourceDir() string {
	return m.session.SourceDir()
}

func (m *Model) Info() *types.ImageInfo {
	return m.info
}

func (m *Model) ShowInfo() bool {
	return m.showInfo
}

func (m *Model) Summary() session.Summary {
	return m.summary
}

func (m *Model) FolderName(c images.Category) string {
	return m.session.FolderName(c)
}

func (m *Model) Pending() int {
	return m.pending
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) JumpView() string {
	out := m.input.View()
	if m.input.Value() == "" {
		return out
	}
	matches := m.jumpMatches()
	for i, match := range matches {
		if i == maxJumpMatches {
			break
		}
		out += "\n  " + styles.Theme.Match.Render(match.Str)
	}
	return out
}

func (m *Model) HelpView() string {
	switch m.mode {
	case common.Confirm:
		return m.help.View(confirmKeys{m.keys})
	case common.Jump:
		return m.help.View(jumpKeys{m.keys})
	}
	return m.help.View(m.keys)
}

// Run starts the terminal UI on s and blocks until it exits. The error that
// stopped the session, if any, is returned.
func Run(s *session.Session, opts ...Option) (session.Summary, error) {
	m := New(s, opts...)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return session.Summary{}, errors.Wrap(err, "terminal UI failed")
	}
	fm := final.(*Model)
	return fm.summary, fm.err
}
