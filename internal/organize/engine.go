package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/internal/log"
)

// Engine performs the file operations of a sorting session: copying
// originals into category folders and removing them afterwards.
type Engine struct {
	dryRun     bool
	createDirs bool
	collision  string
}

// New creates an Engine with the default settings.
func New() *Engine {
	return NewWithConfig(config.New())
}

// NewWithConfig creates a new Engine from configuration
func NewWithConfig(cfg *config.Config) *Engine {
	e := &Engine{}
	e.SetConfig(cfg)
	return e
}

func (e *Engine) SetConfig(cfg *config.Config) {
	e.dryRun = cfg.Settings.DryRun
	e.createDirs = cfg.Settings.CreateDirs
	e.collision = cfg.Settings.Collision
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// SetCollision selects the collision strategy.
func (e *Engine) SetCollision(strategy string) error {
	switch strategy {
	case config.CollisionOverwrite, config.CollisionRename, config.CollisionSkip, config.CollisionError:
		e.collision = strategy
		return nil
	}
	return errors.NewConfigError("unknown collision strategy", strategy, errors.InvalidConfig, nil)
}

// Collision returns the active collision strategy.
func (e *Engine) Collision() string {
	return e.collision
}

// CopyFile copies src to dest, handling collisions based on config.
// It returns the path actually written, or "" when the copy was skipped.
func (e *Engine) CopyFile(src, dest string) (string, error) {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		log.Debug("Source and destination are the same, skipping: %s", src)
		return cleanDest, nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		return "", errors.FileErrorFromOS("source file error", cleanSrc, err)
	}
	if srcInfo.IsDir() {
		return "", errors.NewFileError("cannot copy directory as file", cleanSrc, errors.InvalidOperation, nil)
	}

	if e.dryRun {
		log.Info("Would copy %s -> %s", cleanSrc, cleanDest)
		return cleanDest, nil
	}

	destDir := filepath.Dir(cleanDest)
	if e.createDirs {
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", errors.FileErrorFromOS("failed to create destination directory", destDir, err)
		}
	}

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil {
		return "", err
	}
	if finalDest == "" {
		return "", nil
	}

	if err := copyContents(cleanSrc, finalDest, srcInfo.Mode().Perm()); err != nil {
		return "", err
	}

	log.LogWithFields(log.F("src", cleanSrc), log.F("dest", finalDest)).Debug("Copied file")
	return finalDest, nil
}

// copyContents writes src into a temporary file next to dest and renames it
// into place, so dest is never observed half-written.
func copyContents(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.FileErrorFromOS("failed to open source", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".imgfilter-*")
	if err != nil {
		return errors.FileErrorFromOS("failed to create destination file", dest, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		cleanup()
		return errors.FileErrorFromOS("failed to copy file", dest, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return errors.FileErrorFromOS("failed to set file mode", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.FileErrorFromOS("failed to write file", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return errors.FileErrorFromOS("failed to move file into place", dest, err)
	}
	return nil
}

// handleCollision implements collision resolution strategies.
// It returns the final destination path and an error if any.
// If the file should be skipped, it returns an empty string and nil error.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	info, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.FileErrorFromOS("error checking destination", dest, err)
	}
	if info.IsDir() {
		return "", errors.NewFileError("destination is a directory", dest, errors.InvalidPath, nil)
	}

	switch e.collision {
	case config.CollisionSkip:
		log.Info("Skipping copy of %s due to collision (strategy: skip)", src)
		return "", nil

	case config.CollisionOverwrite, "":
		log.Debug("Overwriting %s (strategy: overwrite)", dest)
		return dest, nil

	case config.CollisionRename:
		return e.findUniqueDestName(dest)

	case config.CollisionError:
		return "", errors.NewFileError("destination already exists", dest, errors.FileExists, nil)

	default:
		return "", errors.NewConfigError("unknown collision strategy", e.collision, errors.InvalidConfig, nil)
	}
}

// findUniqueDestName finds a unique filename by adding counter to the basename
func (e *Engine) findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)

		if _, err := os.Stat(newName); os.IsNotExist(err) {
			log.Info("Renaming destination to %s due to collision (strategy: rename)", newName)
			return newName, nil
		}
	}

	return "", errors.NewFileError("failed to find unique name after 1000 attempts", originalPath, errors.FileExists, nil)
}

// RemoveFile deletes a single file.
func (e *Engine) RemoveFile(path string) error {
	if e.dryRun {
		log.Info("Would remove %s", path)
		return nil
	}
	if err := os.Remove(path); err != nil {
		return errors.FileErrorFromOS("failed to remove file", path, err)
	}
	log.Debug("Removed %s", path)
	return nil
}
