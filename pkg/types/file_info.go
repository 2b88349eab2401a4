package types

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ImageInfo represents analyzed image information
type ImageInfo struct {
	Path        string            `json:"path"`
	ContentType string            `json:"type"`
	Size        int64             `json:"size"`
	ModTime     time.Time         `json:"mod_time"`
	Taken       time.Time         `json:"taken,omitempty"`
	Camera      string            `json:"camera,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Name returns the base name of the file
func (f *ImageInfo) Name() string {
	return filepath.Base(f.Path)
}

// HumanSize returns the size in human-readable form, e.g. "4.2 MB".
func (f *ImageInfo) HumanSize() string {
	if f.Size < 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(f.Size))
}

// IsImage reports whether the detected content is an image, whatever the extension says.
func (f *ImageInfo) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// ToJSON converts ImageInfo to JSON string
func (f *ImageInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(f)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (f *ImageInfo) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Path))
	sb.WriteString(fmt.Sprintf("Type: %s\n", f.ContentType))
	sb.WriteString(fmt.Sprintf("Size: %s\n", f.HumanSize()))
	if !f.Taken.IsZero() {
		sb.WriteString(fmt.Sprintf("Taken: %s\n", f.Taken.Format("2006-01-02 15:04:05")))
	}
	if f.Camera != "" {
		sb.WriteString(fmt.Sprintf("Camera: %s\n", f.Camera))
	}
	if len(f.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(f.Tags, ", ")))
	}
	return sb.String()
}
