//go:build !nogui
// +build !nogui

package gui

import (
	"os"
	"path/filepath"
	"testing"

	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/pkg/testutils"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrompter records dialogs and answers confirms with answer. With hold
// set the confirm stays open until the test calls pending.
type fakePrompter struct {
	answer   bool
	hold     bool
	pending  func(bool)
	confirms []string
	errs     []error
	infos    []string
}

func (p *fakePrompter) Confirm(title, message string, callback func(bool)) {
	p.confirms = append(p.confirms, message)
	if p.hold {
		p.pending = callback
		return
	}
	callback(p.answer)
}

func (p *fakePrompter) Error(err error, onClosed func()) {
	p.errs = append(p.errs, err)
}

func (p *fakePrompter) Info(title, message string, onClosed func()) {
	p.infos = append(p.infos, message)
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *fakePrompter) {
	t.Helper()
	if cfg == nil {
		cfg = config.NewTestConfig()
	}
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	a := NewApp(cfg, WithFyneApp(fyneApp))
	p := &fakePrompter{}
	a.prompt = p
	return a, p
}

func imageFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		testutils.WritePNG(t, filepath.Join(dir, name), 2, 2)
	}
	return dir
}

func typeKey(a *App, name fyne.KeyName) {
	a.GetMainWindow().Canvas().OnTypedKey()(&fyne.KeyEvent{Name: name})
}

func TestNewApp(t *testing.T) {
	a, _ := newTestApp(t, nil)

	w := a.GetMainWindow()
	require.NotNil(t, w)
	assert.Equal(t, "Image Filter - No images", w.Title())
	assert.Nil(t, a.Session())

	menu := w.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 1)
	assert.Equal(t, "Folder", menu.Items[0].Label)
	assert.Equal(t, "Open folder", menu.Items[0].Items[0].Label)

	// keys before a folder is open do nothing
	typeKey(a, fyne.KeyRight)
	assert.Nil(t, a.Session())
}

func TestOpenFolder(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := imageFolder(t, "a.png", "b.png")

	a.Open(dir)
	require.NotNil(t, a.Session())
	assert.Empty(t, p.errs)
	assert.Equal(t, "Image Filter - 1/2", a.GetMainWindow().Title())
	assert.Equal(t, filepath.Join(dir, "a.png"), a.image.File)
	assert.Equal(t, "a.png", a.nameLabel.Text)
	assert.Contains(t, a.infoLabel.Text, "image/png")
}

func TestOpenFolderWithoutImages(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	a.Open(dir)
	assert.Nil(t, a.Session())
	assert.Equal(t, []string{"No images in the folder."}, p.infos)
	assert.Empty(t, p.errs)
}

func TestOpenMissingFolder(t *testing.T) {
	a, p := newTestApp(t, nil)

	a.Open(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, a.Session())
	require.Len(t, p.errs, 1)
	assert.True(t, errors.IsFileNotFound(p.errs[0]))
}

func TestArrowKeys(t *testing.T) {
	a, _ := newTestApp(t, nil)
	dir := imageFolder(t, "a.png", "b.png", "c.png")
	a.Open(dir)
	root := a.Session().Root()

	typeKey(a, fyne.KeyUp)
	assert.FileExists(t, filepath.Join(root, "Favorites", "a.png"))
	assert.Equal(t, "Image Filter - 2/3", a.GetMainWindow().Title())

	typeKey(a, fyne.KeyDown)
	assert.FileExists(t, filepath.Join(root, "Delete", "b.png"))
	assert.Equal(t, "c.png", a.nameLabel.Text)

	typeKey(a, fyne.KeyLeft)
	assert.Equal(t, "b.png", a.nameLabel.Text)

	typeKey(a, fyne.KeyRight)
	assert.FileExists(t, filepath.Join(root, "Keep", "b.png"))
	assert.Equal(t, "Image Filter - 3/3", a.GetMainWindow().Title())

	// unmapped keys are ignored
	typeKey(a, fyne.KeySpace)
	assert.Equal(t, "Image Filter - 3/3", a.GetMainWindow().Title())
}

func TestPurgeConfirmed(t *testing.T) {
	a, p := newTestApp(t, nil)
	p.answer = true
	dir := imageFolder(t, "a.png", "b.png")
	a.Open(dir)

	typeKey(a, fyne.KeyRight)
	typeKey(a, fyne.KeyRight)

	require.Len(t, p.confirms, 1)
	assert.Contains(t, p.confirms[0], "Delete all 2 original image(s)")
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	assert.NoFileExists(t, filepath.Join(dir, "b.png"))
	require.Len(t, p.infos, 1)
	assert.Contains(t, p.infos[0], "Keep: 2")
	assert.Contains(t, p.infos[0], "Deleted 2 original image(s).")
}

func TestPurgeDeclined(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := imageFolder(t, "a.png", "b.png")
	a.Open(dir)

	// jump to the last image, leaving a.png unclassified
	_, err := a.Session().Manager().Seek(1)
	require.NoError(t, err)
	typeKey(a, fyne.KeyUp)

	require.Len(t, p.confirms, 1)
	assert.Contains(t, p.confirms[0], "1 image(s) were never classified")
	assert.FileExists(t, filepath.Join(dir, "a.png"))
	require.Len(t, p.infos, 1)
	assert.Contains(t, p.infos[0], "Originals kept.")
}

func TestPurgeNotOffered(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Settings.ConfirmPurge = false
	a, p := newTestApp(t, cfg)
	dir := imageFolder(t, "a.png")
	a.Open(dir)

	typeKey(a, fyne.KeyDown)
	assert.Empty(t, p.confirms)
	assert.FileExists(t, filepath.Join(dir, "a.png"))
	require.Len(t, p.infos, 1)
}

func TestIOFailureShowsError(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := imageFolder(t, "a.png", "b.png")
	a.Open(dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))

	typeKey(a, fyne.KeyRight)
	require.Len(t, p.errs, 1)
	assert.True(t, errors.IsIOFailure(p.errs[0]))
	assert.Equal(t, p.errs[0], a.Err())
	assert.Equal(t, "Image Filter - 1/2", a.GetMainWindow().Title())
}

func TestReload(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := imageFolder(t, "a.png")
	a.Open(dir)

	testutils.WritePNG(t, filepath.Join(dir, "b.png"), 2, 2)
	a.Reload()
	assert.Empty(t, p.errs)
	assert.Equal(t, "Image Filter - 1/2", a.GetMainWindow().Title())
	assert.Equal(t, "Reloaded 2 image(s)", a.status.Text)
	assert.Equal(t, 0, a.Pending())
}

func TestSummaryText(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.Open(imageFolder(t, "a.png"))

	sum := a.Session().Summary()
	assert.Equal(t, "Favorites: 0\nKeep: 0\nDelete: 0\nOriginals kept.", summaryText(a.Session(), sum))
}

func TestKeysIgnoredWhileConfirmOpen(t *testing.T) {
	a, p := newTestApp(t, nil)
	p.hold = true
	dir := imageFolder(t, "a.png", "b.png")
	a.Open(dir)
	root := a.Session().Root()

	typeKey(a, fyne.KeyRight)
	typeKey(a, fyne.KeyRight)
	require.Len(t, p.confirms, 1)
	require.NotNil(t, p.pending)

	// the dialog has no focus, so keys land on the canvas
	typeKey(a, fyne.KeyUp)
	typeKey(a, fyne.KeyDown)
	typeKey(a, fyne.KeyLeft)
	a.Reload()
	assert.Len(t, p.confirms, 1)
	assert.NoFileExists(t, filepath.Join(root, "Favorites", "b.png"))
	assert.NoFileExists(t, filepath.Join(root, "Delete", "b.png"))
	assert.Nil(t, a.Err())

	p.pending(true)
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	require.Len(t, p.infos, 1)

	// and after the purge, while the summary is open
	typeKey(a, fyne.KeyRight)
	assert.Nil(t, a.Err())
	assert.Empty(t, p.errs)
	assert.Len(t, p.infos, 1)
}

func TestOpenAfterFinishAcceptsKeys(t *testing.T) {
	a, p := newTestApp(t, nil)
	a.Open(imageFolder(t, "a.png"))
	typeKey(a, fyne.KeyRight)
	require.Len(t, p.confirms, 1)

	a.Open(imageFolder(t, "c.png", "d.png"))
	typeKey(a, fyne.KeyRight)
	assert.Equal(t, "Image Filter - 2/2", a.GetMainWindow().Title())
}

func TestReloadEmptyFolder(t *testing.T) {
	a, p := newTestApp(t, nil)
	dir := imageFolder(t, "a.png")
	a.Open(dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))

	a.Reload()
	assert.Nil(t, a.Err())
	assert.Empty(t, p.errs)
	assert.Equal(t, []string{"No images in the folder."}, p.infos)
	assert.Nil(t, a.Session())
	assert.Equal(t, "Image Filter - No images", a.GetMainWindow().Title())

	// keys do nothing until another folder is opened
	typeKey(a, fyne.KeyRight)
	assert.Nil(t, a.Err())
}
