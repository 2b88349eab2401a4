// Package session runs one sorting pass over a folder: it prepares the
// output folders, turns user actions into image manager operations and
// guards the final deletion of the originals.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/log"
	"imgfilter/internal/organize"

	"github.com/google/uuid"
)

// Action is a discrete user command, independent of the input device.
type Action int

const (
	ClassifyFavorite Action = iota
	ClassifyKeep
	ClassifyDelete
	GoBack
)

func (a Action) String() string {
	switch a {
	case ClassifyFavorite:
		return "classify-favorite"
	case ClassifyKeep:
		return "classify-keep"
	case ClassifyDelete:
		return "classify-delete"
	case GoBack:
		return "go-back"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ErrUnknownAction is returned by Apply for actions without a handler.
var ErrUnknownAction = errors.NewCollectionError("unknown action", errors.InvalidOperation)

// Outcome describes the state after an action.
type Outcome struct {
	Path     string // image now under the cursor
	Written  string // copy written by a classify action, "" otherwise
	Finished bool   // the last image was classified
}

// Summary reports what a session did.
type Summary struct {
	Root         string
	Total        int
	Counts       map[images.Category]int
	Unclassified int
	Purged       bool
}

// Session owns the image manager for one source folder.
type Session struct {
	id        string
	cfg       *config.Config
	root      string
	manager   *images.Manager
	decisions map[string]images.Category
	handlers  map[Action]func() (Outcome, error)
}

// New loads sourceDir and creates "<prefix> <timestamp>/{Favorites,Keep,Delete}"
// inside it. A folder without images yields images.ErrNoImages and nothing is
// created.
func New(sourceDir string, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.New()
	}

	manager, err := images.New(sourceDir,
		images.WithEngine(organize.NewWithConfig(cfg)),
		images.WithExtensions(cfg.Images.Extensions),
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:        uuid.New().String(),
		cfg:       cfg,
		manager:   manager,
		decisions: make(map[string]images.Category),
	}
	logger := log.LogWithFields(log.F("session", s.id), log.F("source", sourceDir))

	if manager.Count() == 0 {
		logger.Warn("No images in the folder")
		return nil, images.ErrNoImages
	}

	name := cfg.Session.FolderPrefix + " " + time.Now().Format(cfg.Session.TimestampFormat)
	s.root = filepath.Join(sourceDir, name)
	if err := s.createFolders(); err != nil {
		return nil, err
	}

	s.handlers = map[Action]func() (Outcome, error){
		ClassifyFavorite: func() (Outcome, error) { return s.classify(images.Favorite) },
		ClassifyKeep:     func() (Outcome, error) { return s.classify(images.Keep) },
		ClassifyDelete:   func() (Outcome, error) { return s.classify(images.Delete) },
		GoBack:           s.back,
	}

	logger.With(log.F("root", s.root), log.F("images", manager.Count())).Info("Session started")
	return s, nil
}

// FolderName is the configured folder name for c.
func (s *Session) FolderName(c images.Category) string {
	return FolderFor(s.cfg, c)
}

// FolderFor is the folder name cfg gives category c.
func FolderFor(cfg *config.Config, c images.Category) string {
	switch c {
	case images.Favorite:
		return cfg.Session.Folders.Favorite
	case images.Keep:
		return cfg.Session.Folders.Keep
	case images.Delete:
		return cfg.Session.Folders.Delete
	}
	return c.FolderName()
}

// LatestRoot returns the newest session folder created inside sourceDir.
// Session folders sort by their timestamp.
func LatestRoot(sourceDir string, cfg *config.Config) (string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return "", errors.FileErrorFromOS("failed to read directory", sourceDir, err)
	}
	prefix := cfg.Session.FolderPrefix + " "
	latest := ""
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", errors.NewFileError("no sorting session found", sourceDir, errors.FileNotFound, nil)
	}
	return filepath.Join(sourceDir, latest), nil
}

func (s *Session) createFolders() error {
	for _, c := range images.Categories() {
		dir := filepath.Join(s.root, s.FolderName(c))
		if !s.cfg.Settings.DryRun {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.FileErrorFromOS("failed to create output folder", dir, err)
			}
		}
		if err := s.manager.SetDestination(c, dir); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the handler registered for a.
func (s *Session) Apply(a Action) (Outcome, error) {
	handler, ok := s.handlers[a]
	if !ok {
		return Outcome{}, ErrUnknownAction
	}
	out, err := handler()
	if err != nil {
		log.LogWithError(err).With(log.F("session", s.id), log.F("action", a.String())).Error("Action failed")
		return out, err
	}
	return out, nil
}

// classify copies the current image and advances. Reaching the last image
// reports Finished instead of moving.
func (s *Session) classify(c images.Category) (Outcome, error) {
	current, err := s.manager.Current()
	if err != nil {
		return Outcome{}, err
	}
	written, err := s.manager.Classify(c)
	if err != nil {
		return Outcome{Path: current}, err
	}
	s.decisions[current] = c

	next, err := s.manager.Next()
	if errors.Is(err, images.ErrEndOfCollection) {
		return Outcome{Path: current, Written: written, Finished: true}, nil
	}
	if err != nil {
		return Outcome{Path: current, Written: written}, err
	}
	return Outcome{Path: next, Written: written}, nil
}

func (s *Session) back() (Outcome, error) {
	prev, err := s.manager.Previous()
	if errors.Is(err, images.ErrNoPrevious) {
		current, _ := s.manager.Current()
		return Outcome{Path: current}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Path: prev}, nil
}

// Decision returns the last category path was classified into.
func (s *Session) Decision(path string) (images.Category, bool) {
	c, ok := s.decisions[path]
	return c, ok
}

// Summary counts the decisions made so far.
func (s *Session) Summary() Summary {
	sum := Summary{
		Root:   s.root,
		Total:  s.manager.Count(),
		Counts: make(map[images.Category]int, 3),
	}
	for _, path := range s.manager.Paths() {
		if c, ok := s.decisions[path]; ok {
			sum.Counts[c]++
		} else {
			sum.Unclassified++
		}
	}
	return sum
}

// Finish ends the session. With confirm set every original image is
// deleted, classified or not. A dry run never deletes and never reports
// a purge.
func (s *Session) Finish(confirm bool) (Summary, error) {
	sum := s.Summary()
	logger := log.LogWithFields(log.F("session", s.id))
	if !confirm {
		logger.Info("Session finished, originals kept")
		return sum, nil
	}
	if s.cfg.Settings.DryRun {
		logger.With(log.F("images", sum.Total)).Info("Dry run: would delete original images, originals kept")
		return sum, nil
	}
	if sum.Unclassified > 0 {
		logger.With(log.F("unclassified", sum.Unclassified)).Warn("Deleting originals that were never classified")
	}
	if err := s.manager.PurgeAll(); err != nil {
		return sum, err
	}
	sum.Purged = true
	logger.With(log.F("deleted", sum.Total)).Info("Session finished, originals deleted")
	return sum, nil
}

// Reload rescans the source folder. Decisions are kept by path.
func (s *Session) Reload() error {
	return s.manager.Load(s.manager.Dir())
}

// Current returns the image under the cursor.
func (s *Session) Current() (string, error) {
	return s.manager.Current()
}

// Progress returns the manager's progress string.
func (s *Session) Progress() string {
	return s.manager.Progress()
}

func (s *Session) ID() string { return s.id }

// Root is the folder holding the three category folders.
func (s *Session) Root() string { return s.root }

func (s *Session) Manager() *images.Manager { return s.manager }

func (s *Session) Config() *config.Config { return s.cfg }

func (s *Session) SourceDir() string { return s.manager.Dir() }
