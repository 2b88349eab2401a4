package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
	return dir
}

func newSession(t *testing.T, names ...string) (*session.Session, string) {
	t.Helper()
	dir := sourceDir(t, names...)
	s, err := session.New(dir, config.NewTestConfig())
	require.NoError(t, err)
	return s, dir
}

func TestNewCreatesLayout(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.png")

	assert.Equal(t, dir, filepath.Dir(s.Root()))
	assert.True(t, strings.HasPrefix(filepath.Base(s.Root()), "Image Filter "))
	assert.Len(t, strings.TrimPrefix(filepath.Base(s.Root()), "Image Filter "), len("20060102150405"))
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, dir, s.SourceDir())

	for _, c := range images.Categories() {
		want := filepath.Join(s.Root(), c.FolderName())
		assert.DirExists(t, want)
		assert.Equal(t, want, s.Manager().Destination(c))
	}
	assert.Equal(t, "1/2", s.Progress())
}

func TestNewCustomFolders(t *testing.T) {
	dir := sourceDir(t, "a.jpg")
	cfg := config.NewTestConfig()
	cfg.Session.FolderPrefix = "Triage"
	cfg.Session.TimestampFormat = "2006"
	cfg.Session.Folders.Favorite = "Best"

	s, err := session.New(dir, cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(s.Root()), "Triage "))
	assert.DirExists(t, filepath.Join(s.Root(), "Best"))
	assert.Equal(t, filepath.Join(s.Root(), "Best"), s.Manager().Destination(images.Favorite))
}

func TestNewWithoutImages(t *testing.T) {
	dir := sourceDir(t, "notes.txt")
	_, err := session.New(dir, config.NewTestConfig())
	assert.ErrorIs(t, err, images.ErrNoImages)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no output folders for an empty session")
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := session.New(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsIOFailure(err))
}

func TestApplyDispatch(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.jpg", "c.jpg")

	out, err := s.Apply(session.ClassifyFavorite)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.jpg"), out.Path)
	assert.Equal(t, filepath.Join(s.Root(), "Favorites", "a.jpg"), out.Written)
	assert.False(t, out.Finished)
	assert.FileExists(t, out.Written)

	out, err = s.Apply(session.ClassifyKeep)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.jpg"), out.Path)
	assert.FileExists(t, filepath.Join(s.Root(), "Keep", "b.jpg"))

	out, err = s.Apply(session.GoBack)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.jpg"), out.Path)
	assert.Empty(t, out.Written)

	// Re-classify b, then finish on c
	_, err = s.Apply(session.ClassifyDelete)
	require.NoError(t, err)
	out, err = s.Apply(session.ClassifyDelete)
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Equal(t, filepath.Join(dir, "c.jpg"), out.Path)
	assert.Equal(t, "3/3", s.Progress())

	c, ok := s.Decision(filepath.Join(dir, "b.jpg"))
	require.True(t, ok)
	assert.Equal(t, images.Delete, c)

	// copies are never removed, so b exists in both Keep and Delete
	assert.FileExists(t, filepath.Join(s.Root(), "Keep", "b.jpg"))
	assert.FileExists(t, filepath.Join(s.Root(), "Delete", "b.jpg"))
}

func TestGoBackAtStart(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.jpg")

	out, err := s.Apply(session.GoBack)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), out.Path)
	assert.Equal(t, "1/2", s.Progress())
}

func TestApplyUnknownAction(t *testing.T) {
	s, _ := newSession(t, "a.jpg")
	_, err := s.Apply(session.Action(42))
	assert.ErrorIs(t, err, session.ErrUnknownAction)
	assert.Equal(t, "action(42)", session.Action(42).String())
}

func TestApplyPropagatesIOFailure(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.jpg")
	require.NoError(t, os.Remove(filepath.Join(dir, "a.jpg")))

	out, err := s.Apply(session.ClassifyKeep)
	require.Error(t, err)
	assert.True(t, errors.IsIOFailure(err))
	assert.Equal(t, filepath.Join(dir, "a.jpg"), out.Path)
	assert.Equal(t, "1/2", s.Progress(), "a failed classify must not advance")

	_, ok := s.Decision(filepath.Join(dir, "a.jpg"))
	assert.False(t, ok)
}

func TestSummaryAndFinish(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.jpg", "c.jpg")

	_, err := s.Apply(session.ClassifyFavorite)
	require.NoError(t, err)
	_, err = s.Apply(session.ClassifyKeep)
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Counts[images.Favorite])
	assert.Equal(t, 1, sum.Counts[images.Keep])
	assert.Equal(t, 0, sum.Counts[images.Delete])
	assert.Equal(t, 1, sum.Unclassified)
	assert.Equal(t, s.Root(), sum.Root)

	t.Run("declined keeps originals", func(t *testing.T) {
		sum, err := s.Finish(false)
		require.NoError(t, err)
		assert.False(t, sum.Purged)
		assert.FileExists(t, filepath.Join(dir, "a.jpg"))
	})

	t.Run("confirmed deletes every original", func(t *testing.T) {
		sum, err := s.Finish(true)
		require.NoError(t, err)
		assert.True(t, sum.Purged)
		assert.Equal(t, 3, sum.Total)
		for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
			assert.NoFileExists(t, filepath.Join(dir, name))
		}
		// the copies survive
		assert.FileExists(t, filepath.Join(s.Root(), "Favorites", "a.jpg"))
		assert.FileExists(t, filepath.Join(s.Root(), "Keep", "b.jpg"))
		assert.Equal(t, images.NoImages, s.Progress())
	})
}

func TestDryRunSession(t *testing.T) {
	dir := sourceDir(t, "a.jpg")
	cfg := config.NewTestConfig()
	cfg.Settings.DryRun = true

	s, err := session.New(dir, cfg)
	require.NoError(t, err)
	assert.NoDirExists(t, s.Root())

	out, err := s.Apply(session.ClassifyKeep)
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.NoFileExists(t, out.Written)

	sum, err := s.Finish(true)
	require.NoError(t, err)
	assert.False(t, sum.Purged, "nothing was deleted")
	assert.Equal(t, 1, sum.Total)
	assert.FileExists(t, filepath.Join(dir, "a.jpg"))
	// the collection is untouched
	assert.Equal(t, 1, s.Manager().Count())
	assert.Equal(t, "1/1", s.Progress())
}

func TestReloadKeepsDecisions(t *testing.T) {
	s, dir := newSession(t, "a.jpg", "b.jpg")
	_, err := s.Apply(session.ClassifyKeep)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.jpg"), []byte("c"), 0644))
	require.NoError(t, s.Reload())

	assert.Equal(t, "1/3", s.Progress())
	c, ok := s.Decision(filepath.Join(dir, "a.jpg"))
	require.True(t, ok)
	assert.Equal(t, images.Keep, c)
	assert.Equal(t, 2, s.Summary().Unclassified)
}

func TestLatestRoot(t *testing.T) {
	cfg := config.NewTestConfig()
	dir := sourceDir(t, "a.jpg")

	_, err := session.LatestRoot(dir, cfg)
	assert.True(t, errors.IsFileNotFound(err))

	for _, name := range []string{"Image Filter 20240101120000", "Image Filter 20240302080000", "Other 20990101000000"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0755))
	}
	root, err := session.LatestRoot(dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Image Filter 20240302080000"), root)

	_, err = session.LatestRoot(filepath.Join(dir, "missing"), cfg)
	assert.True(t, errors.IsIOFailure(err))
}

func TestFolderFor(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Session.Folders.Favorite = "Best"

	assert.Equal(t, "Best", session.FolderFor(cfg, images.Favorite))
	assert.Equal(t, "Keep", session.FolderFor(cfg, images.Keep))
	assert.Equal(t, "Delete", session.FolderFor(cfg, images.Delete))
}
