package common

import (
	"imgfilter/internal/images"
	"imgfilter/internal/session"
	"imgfilter/pkg/types"
)

type Mode int

const (
	Normal Mode = iota
	Jump
	Confirm
	Done
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	CurrentName() string
	Progress() string
	SourceDir() string
	Info() *types.ImageInfo
	ShowInfo() bool
	Summary() session.Summary
	FolderName(c images.Category) string
	Pending() int
	Err() error

	// Rendered sub-components
	StatusView() string
	JumpView() string
	HelpView() string
}
