//go:build !nogui
// +build !nogui

package gui

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"imgfilter/internal/analysis"
	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/log"
	"imgfilter/internal/session"
	"imgfilter/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	appID       = "io.github.imgfilter"
	windowTitle = "Image Filter"
	noImagesMsg = "No images in the folder."
)

// keyActions maps arrow keys to session actions.
var keyActions = map[fyne.KeyName]session.Action{
	fyne.KeyRight: session.ClassifyKeep,
	fyne.KeyUp:    session.ClassifyFavorite,
	fyne.KeyDown:  session.ClassifyDelete,
	fyne.KeyLeft:  session.GoBack,
}

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	analyzer   *analysis.Engine
	prompt     prompter

	session *session.Session
	watcher *watch.Watcher
	pending atomic.Int64
	done    bool // the last image is classified, keys no longer reach the session
	err     error

	image     *canvas.Image
	nameLabel *widget.Label
	infoLabel *widget.Label
	status    *widget.Label
}

// Option configures an App
type Option func(*App)

// WithFyneApp runs the GUI on an existing fyne application, e.g. the test driver.
func WithFyneApp(a fyne.App) Option {
	return func(app *App) {
		app.fyneApp = a
	}
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.New()
	}
	a := &App{
		cfg:      cfg,
		analyzer: analysis.NewWithConfig(cfg),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fyneApp == nil {
		a.fyneApp = app.NewWithID(appID)
	}

	a.mainWindow = a.fyneApp.NewWindow(windowTitle)
	a.prompt = dialogPrompter{win: a.mainWindow}
	a.setupMainWindow()
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Session returns the open session, nil until a folder with images is opened.
func (a *App) Session() *session.Session {
	return a.session
}

// Pending is the number of folder changes seen since the last load.
func (a *App) Pending() int {
	return int(a.pending.Load())
}

// Err returns the error that closed the window, if any.
func (a *App) Err() error {
	return a.err
}

func (a *App) setupMainWindow() {
	a.image = &canvas.Image{FillMode: canvas.ImageFillContain}
	a.image.SetMinSize(fyne.NewSize(480, 360))

	a.nameLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.infoLabel = widget.NewLabel("")
	a.status = widget.NewLabel("Open a folder to start")

	a.mainWindow.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("Folder",
			fyne.NewMenuItem("Open folder", a.showOpenFolder),
			fyne.NewMenuItem("Reload", a.Reload),
		),
	))

	help := widget.NewLabel("→ keep   ↑ favorite   ↓ delete   ← back")
	content := container.NewBorder(
		container.NewHBox(a.nameLabel, layout.NewSpacer(), a.infoLabel),
		container.NewHBox(a.status, layout.NewSpacer(), help),
		nil,
		nil,
		a.image,
	)

	a.mainWindow.SetContent(content)
	a.mainWindow.Resize(fyne.NewSize(900, 700))
	a.mainWindow.Canvas().SetOnTypedKey(a.handleKey)
	a.mainWindow.SetOnClosed(a.stopWatcher)
	a.updateTitle()
}

// Run shows the window and blocks until it is closed. A non-empty dir is
// opened right away.
func (a *App) Run(dir string) error {
	a.mainWindow.Show()
	if dir != "" {
		a.Open(dir)
	}
	a.fyneApp.Run()
	return a.err
}

func (a *App) showOpenFolder() {
	showFolderOpen(a.mainWindow, func(dir string) {
		a.Open(dir)
	})
}

// Open starts a new session on dir, replacing the current one.
func (a *App) Open(dir string) {
	s, err := session.New(dir, a.cfg)
	if errors.Is(err, images.ErrNoImages) {
		a.prompt.Info(windowTitle, noImagesMsg, nil)
		return
	}
	if err != nil {
		a.ShowError("Failed to open folder", err)
		return
	}

	a.stopWatcher()
	a.session = s
	a.done = false
	a.pending.Store(0)
	a.status.SetText("Copies go to " + s.Root())
	a.startWatcher(dir)
	a.showCurrent()
}

// Reload rescans the source folder of the open session.
func (a *App) Reload() {
	if a.session == nil || a.done {
		return
	}
	if err := a.session.Reload(); err != nil {
		a.fail(err)
		return
	}
	a.pending.Store(0)
	if a.session.Manager().Count() == 0 {
		// nothing left to sort; back to the empty window
		log.Warn("No images left in %s", a.session.SourceDir())
		a.stopWatcher()
		a.session = nil
		a.image.File = ""
		a.image.Refresh()
		a.nameLabel.SetText("")
		a.infoLabel.SetText("")
		a.status.SetText("Open a folder to start")
		a.updateTitle()
		a.prompt.Info(windowTitle, noImagesMsg, nil)
		return
	}
	a.status.SetText(fmt.Sprintf("Reloaded %d image(s)", a.session.Manager().Count()))
	a.showCurrent()
}

func (a *App) handleKey(ev *fyne.KeyEvent) {
	action, ok := keyActions[ev.Name]
	if !ok || a.session == nil || a.done {
		return
	}
	a.dispatch(action)
}

// dispatch applies action to the session and refreshes the window.
func (a *App) dispatch(action session.Action) {
	out, err := a.session.Apply(action)
	if err != nil {
		a.fail(err)
		return
	}
	if out.Written != "" {
		a.status.SetText(fmt.Sprintf("%s → %s", filepath.Base(filepath.Dir(out.Written)), filepath.Base(out.Written)))
	}
	if out.Finished {
		a.askPurge()
		return
	}
	a.showCurrent()
}

func (a *App) askPurge() {
	a.done = true
	if !a.cfg.Settings.ConfirmPurge {
		a.finish(false)
		return
	}
	sum := a.session.Summary()
	msg := fmt.Sprintf("Delete all %d original image(s) from %s?", sum.Total, a.session.SourceDir())
	if sum.Unclassified > 0 {
		msg += fmt.Sprintf("\n%d image(s) were never classified.", sum.Unclassified)
	}
	a.prompt.Confirm("Finished", msg, a.finish)
}

func (a *App) finish(confirm bool) {
	sum, err := a.session.Finish(confirm)
	if err != nil {
		a.fail(err)
		return
	}
	a.prompt.Info(windowTitle, summaryText(a.session, sum), a.mainWindow.Close)
}

func summaryText(s *session.Session, sum session.Summary) string {
	var lines []string
	for _, c := range images.Categories() {
		lines = append(lines, fmt.Sprintf("%s: %d", s.FolderName(c), sum.Counts[c]))
	}
	if sum.Purged {
		lines = append(lines, fmt.Sprintf("Deleted %d original image(s).", sum.Total))
	} else {
		lines = append(lines, "Originals kept.")
	}
	return strings.Join(lines, "\n")
}

func (a *App) showCurrent() {
	path, err := a.session.Current()
	if err != nil {
		a.fail(err)
		return
	}
	a.image.File = path
	a.image.Refresh()
	a.nameLabel.SetText(filepath.Base(path))

	if info, err := a.analyzer.Analyze(path); err == nil {
		a.infoLabel.SetText(fmt.Sprintf("%s  %s", info.ContentType, info.HumanSize()))
	} else {
		a.infoLabel.SetText("")
	}
	a.updateTitle()
}

func (a *App) updateTitle() {
	progress := images.NoImages
	if a.session != nil {
		progress = a.session.Progress()
	}
	a.mainWindow.SetTitle(windowTitle + " - " + progress)
}

// fail reports an I/O failure and closes the window once it is dismissed.
func (a *App) fail(err error) {
	log.LogWithError(err).Error("Stopping on error")
	a.err = err
	a.prompt.Error(err, a.mainWindow.Close)
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Error(title)
	a.prompt.Error(errors.Wrap(err, title), nil)
}

func (a *App) startWatcher(dir string) {
	if !a.cfg.Watch.Enabled {
		return
	}
	w, err := watch.New(a.session.Manager().IsImage)
	if err != nil {
		log.LogWithError(err).Warn("Folder watching disabled")
		return
	}
	if err := w.AddDirectory(dir); err != nil {
		log.LogWithError(err).Warn("Folder watching disabled")
		return
	}
	if err := w.Start(); err != nil {
		log.LogWithError(err).Warn("Folder watching disabled")
		return
	}
	a.watcher = w

	go func(events <-chan watch.Event) {
		for ev := range events {
			n := a.pending.Add(1)
			a.status.SetText(fmt.Sprintf("%s %s, %d change(s): Folder > Reload",
				filepath.Base(ev.Path), ev.Kind, n))
		}
	}(w.Events())
}

func (a *App) stopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
