// Package images keeps the ordered list of images found in a folder together
// with a cursor into it, and copies the image under the cursor into one of
// three category folders.
//
// A Manager is not safe for concurrent use; it is driven by one interactive
// session at a time.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgfilter/internal/errors"
	"imgfilter/internal/log"
	"imgfilter/internal/organize"

	"github.com/gobwas/glob"
)

// NoImages is what Progress reports for an empty collection.
const NoImages = "No images"

// Boundary conditions. They are returned instead of moving the cursor and
// are not failures.
var (
	ErrNoImages        = errors.NewCollectionError("no images", errors.EmptyCollection)
	ErrNoPrevious      = errors.NewCollectionError("no previous image", errors.OutOfRange)
	ErrEndOfCollection = errors.NewCollectionError("end of collection", errors.OutOfRange)
	ErrInvalidIndex    = errors.NewCollectionError("invalid index", errors.OutOfRange)
	ErrInvalidCategory = errors.NewCollectionError("invalid category", errors.InvalidCategory)
)

// DefaultExtensions are matched case-insensitively.
var DefaultExtensions = []string{"jpg", "png", "jpeg"}

// Option configures a Manager.
type Option func(*Manager)

// WithEngine sets the engine used to copy and remove files.
func WithEngine(e organize.Transferer) Option {
	return func(m *Manager) {
		m.engine = e
	}
}

// WithExtensions replaces the accepted extensions (without dots).
func WithExtensions(exts []string) Option {
	return func(m *Manager) {
		m.extensions = exts
	}
}

// Manager is a cursor over the images of one folder.
type Manager struct {
	dir        string
	paths      []string
	index      int
	dest       map[Category]string
	engine     organize.Transferer
	extensions []string
	match      glob.Glob
}

// New creates a Manager and loads dir. Destinations default to the category
// folder names inside dir until SetDestination rewires them.
func New(dir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dest:       make(map[Category]string, 3),
		extensions: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.engine == nil {
		m.engine = organize.New()
	}

	match, err := compileExtensions(m.extensions)
	if err != nil {
		return nil, err
	}
	m.match = match

	for _, c := range Categories() {
		m.dest[c] = filepath.Join(dir, c.FolderName())
	}

	if err := m.Load(dir); err != nil {
		return nil, err
	}
	return m, nil
}

// compileExtensions builds a glob such as "*.{jpg,png,jpeg}" for lower-cased names.
func compileExtensions(exts []string) (glob.Glob, error) {
	if len(exts) == 0 {
		return nil, errors.NewConfigError("no image extensions configured", "images.extensions", errors.InvalidConfig, nil)
	}
	clean := make([]string, 0, len(exts))
	for _, ext := range exts {
		clean = append(clean, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	pattern := "*.{" + strings.Join(clean, ",") + "}"
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid image extensions", pattern, errors.InvalidConfig, err)
	}
	return g, nil
}

// IsImage reports whether name has one of the accepted extensions.
func (m *Manager) IsImage(name string) bool {
	return m.match.Match(strings.ToLower(filepath.Base(name)))
}

// Load replaces the collection with the images directly inside dir, in
// directory order, and resets the cursor. Subdirectories are not entered.
// A folder without images yields an empty collection, not an error.
func (m *Manager) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.FileErrorFromOS("failed to read directory", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !m.IsImage(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !entry.Type().IsRegular() {
			// Symlinks and the like count only when they resolve to a file
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		paths = append(paths, path)
	}

	m.dir = dir
	m.paths = paths
	m.index = 0

	log.LogWithFields(log.F("directory", dir), log.F("images", len(paths))).Debug("Loaded images")
	return nil
}

// Dir returns the folder the collection was loaded from.
func (m *Manager) Dir() string {
	return m.dir
}

// Current returns the image under the cursor.
func (m *Manager) Current() (string, error) {
	if len(m.paths) == 0 {
		return "", ErrNoImages
	}
	return m.paths[m.index], nil
}

// Previous moves the cursor back one image. At the first image it returns
// ErrNoPrevious and stays put.
func (m *Manager) Previous() (string, error) {
	if len(m.paths) == 0 {
		return "", ErrNoImages
	}
	if m.index == 0 {
		return "", ErrNoPrevious
	}
	m.index--
	return m.paths[m.index], nil
}

// Next moves the cursor forward one image. At the last image it returns
// ErrEndOfCollection and stays put.
func (m *Manager) Next() (string, error) {
	if len(m.paths) == 0 {
		return "", ErrNoImages
	}
	if m.index == len(m.paths)-1 {
		return "", ErrEndOfCollection
	}
	m.index++
	return m.paths[m.index], nil
}

// Seek moves the cursor to index i.
func (m *Manager) Seek(i int) (string, error) {
	if i < 0 || i >= len(m.paths) {
		return "", ErrInvalidIndex
	}
	m.index = i
	return m.paths[m.index], nil
}

// Index returns the cursor position.
func (m *Manager) Index() int {
	return m.index
}

// Count returns the number of images in the collection.
func (m *Manager) Count() int {
	return len(m.paths)
}

// Paths returns a copy of the collection.
func (m *Manager) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Progress returns "<position>/<total>" counting from 1, or NoImages.
func (m *Manager) Progress() string {
	if len(m.paths) == 0 {
		return NoImages
	}
	return fmt.Sprintf("%d/%d", m.index+1, len(m.paths))
}

// Destination returns the folder images of category c are copied to.
func (m *Manager) Destination(c Category) string {
	return m.dest[c]
}

// SetDestination changes the folder images of category c are copied to.
func (m *Manager) SetDestination(c Category, path string) error {
	if !c.Valid() {
		return ErrInvalidCategory
	}
	m.dest[c] = path
	return nil
}

// Classify copies the current image into the folder of category c under
// its original name. The source file and the collection are unchanged.
// It returns the path written, which is "" if the engine skipped the copy.
func (m *Manager) Classify(c Category) (string, error) {
	src, err := m.Current()
	if err != nil {
		return "", err
	}
	if !c.Valid() {
		return "", ErrInvalidCategory
	}

	dest := filepath.Join(m.dest[c], filepath.Base(src))
	written, err := m.engine.CopyFile(src, dest)
	if err != nil {
		return "", err
	}

	log.LogWithFields(log.F("image", filepath.Base(src)), log.F("category", c.String())).Debug("Classified image")
	return written, nil
}

// PurgeAll deletes every image of the collection from its original folder.
// It stops at the first failure; images already deleted are dropped from the
// collection either way, and the cursor returns to the start.
func (m *Manager) PurgeAll() error {
	if len(m.paths) == 0 {
		return nil
	}

	removed := 0
	var purgeErr error
	for _, path := range m.paths {
		if err := m.engine.RemoveFile(path); err != nil {
			purgeErr = err
			break
		}
		removed++
	}

	m.paths = m.paths[removed:]
	m.index = 0

	if purgeErr != nil {
		log.LogWithError(purgeErr).Error("Purge stopped")
		return purgeErr
	}
	log.Info("Deleted %d original images from %s", removed, m.dir)
	return nil
}
