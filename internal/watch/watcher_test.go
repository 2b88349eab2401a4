package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpgOnly(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jpg")
}

// waitFor returns the first event for path, failing the test on timeout.
func waitFor(t *testing.T, events <-chan Event, path string) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed unexpectedly")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event on %s", path)
		}
	}
}

func TestWatcherReportsImages(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New(jpgOnly)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.AddDirectory(tempDir))
	assert.Equal(t, []string{tempDir}, w.Directories())

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start must fail")

	// Allow fsnotify to settle its watches
	time.Sleep(100 * time.Millisecond)

	// non-images are filtered before anything is sent
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644))

	photo := filepath.Join(tempDir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0644))

	ev := waitFor(t, w.Events(), photo)
	assert.Equal(t, Added, ev.Kind)
	assert.False(t, ev.Timestamp.IsZero())

	require.NoError(t, os.Remove(photo))
	ev = waitFor(t, w.Events(), photo)
	assert.Equal(t, Removed, ev.Kind)
}

func TestWatcherRename(t *testing.T) {
	tempDir := t.TempDir()
	oldPath := filepath.Join(tempDir, "old.jpg")
	require.NoError(t, os.WriteFile(oldPath, []byte("jpeg"), 0644))

	w, err := New(jpgOnly)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start())
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	newPath := filepath.Join(tempDir, "new.jpg")
	require.NoError(t, os.Rename(oldPath, newPath))

	events := map[string]Kind{}
	timeout := time.After(3 * time.Second)
	for len(events) < 2 {
		select {
		case ev := <-w.Events():
			events[ev.Path] = ev.Kind
		case <-timeout:
			t.Fatalf("timeout, got %v", events)
		}
	}
	assert.Equal(t, Removed, events[oldPath])
	assert.Equal(t, Added, events[newPath])
}

func TestWatcherSubdirectoryIgnored(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start())
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "album.jpg"), 0755))
	marker := filepath.Join(tempDir, "marker")
	require.NoError(t, os.WriteFile(marker, nil, 0644))

	// the directory create is dropped, so the first event is the marker
	ev := <-w.Events()
	assert.Equal(t, marker, ev.Path)
}

func TestWatcherStopClosesChannel(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(t.TempDir()))
	require.NoError(t, w.Start())

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop() // second stop is a no-op

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "event channel should be closed after stop")
	case <-time.After(time.Second):
		t.Error("timeout waiting for event channel to close after stop")
	}
}

func TestWatcherIsSingleUse(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "already running")

	w.Stop()
	assert.ErrorIs(t, w.Start(), ErrStopped)
	assert.ErrorIs(t, w.AddDirectory(dir), ErrStopped)
	assert.False(t, w.IsRunning())
}

func TestAddDirectoryErrors(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "file.jpg")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, w.AddDirectory(file))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "kind(5)", Kind(5).String())
}
