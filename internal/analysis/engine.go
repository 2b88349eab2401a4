package analysis

import (
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"imgfilter/internal/config"
	serr "imgfilter/internal/errors"
	"imgfilter/internal/images"
	log "imgfilter/internal/log"
	"imgfilter/pkg/types"
)

var registerParsers sync.Once

// Engine inspects images: detected content type, size and EXIF metadata.
type Engine struct {
	extensions []string
}

// New creates a new Analysis Engine instance
func New() *Engine {
	registerParsers.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})
	return &Engine{extensions: images.DefaultExtensions}
}

// NewWithConfig creates a new Analysis Engine using the configured extensions
func NewWithConfig(cfg *config.Config) *Engine {
	engine := New()
	engine.extensions = cfg.Images.Extensions
	return engine
}

// Analyze inspects a single file. Missing EXIF data is not an error.
func (e *Engine) Analyze(path string) (*types.ImageInfo, error) {
	logger := log.LogWithFields(log.F("path", path))

	stat, err := os.Stat(path)
	if err != nil {
		return nil, serr.FileErrorFromOS("failed to stat file", path, err)
	}
	if stat.IsDir() {
		return nil, serr.NewFileError("not a file", path, serr.InvalidPath, nil)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, serr.FileErrorFromOS("failed to read file", path, err)
	}

	info := &types.ImageInfo{
		Path:        path,
		ContentType: mime.String(),
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
		Metadata:    make(map[string]string),
	}

	if info.IsImage() {
		info.Tags = append(info.Tags, "image")
	} else {
		// The extension promised an image but the bytes disagree
		info.Tags = append(info.Tags, "not-image")
		logger.Debugf("Content type %s does not look like an image", info.ContentType)
		return info, nil
	}

	e.readExif(path, info)
	return info, nil
}

func (e *Engine) readExif(path string, info *types.ImageInfo) {
	logger := log.LogWithFields(log.F("path", path))

	file, err := os.Open(path)
	if err != nil {
		logger.Debugf("Failed to open image for exif: %v", err)
		return
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		logger.Debugf("No EXIF data found or failed to decode: %v", err)
		return
	}
	info.Tags = append(info.Tags, "exif")

	if taken, err := x.DateTime(); err == nil {
		info.Taken = taken
		info.Metadata["DateTimeOriginal"] = taken.Format("2006:01:02 15:04:05")
	}

	var camera []string
	for _, field := range []exif.FieldName{exif.Make, exif.Model} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if val, err := tag.StringVal(); err == nil && strings.TrimSpace(val) != "" {
			val = strings.TrimSpace(val)
			info.Metadata[string(field)] = val
			camera = append(camera, val)
		}
	}
	info.Camera = strings.Join(camera, " ")
}

// ScanDirectory analyses every image a session would load from dir, in the
// same order. Files that fail analysis are logged and skipped.
func (e *Engine) ScanDirectory(dir string) ([]*types.ImageInfo, error) {
	logger := log.LogWithFields(log.F("directory", dir))

	m, err := images.New(dir, images.WithExtensions(e.extensions))
	if err != nil {
		return nil, err
	}

	results := make([]*types.ImageInfo, 0, m.Count())
	for _, path := range m.Paths() {
		info, err := e.Analyze(path)
		if err != nil {
			logger.WithError(err).Warn("Error analyzing image")
			continue
		}
		results = append(results, info)
	}
	return results, nil
}
