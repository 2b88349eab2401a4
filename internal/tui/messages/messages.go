package messages

import (
	"imgfilter/internal/watch"
	"imgfilter/pkg/types"
)

type ErrorMsg struct {
	Err error
}

// AnalysisCompleteMsg carries the info pane contents for Path.
type AnalysisCompleteMsg struct {
	Path  string
	Info  *types.ImageInfo
	Error error
}

// WatchEventMsg is a change seen in the source folder.
type WatchEventMsg struct {
	Event watch.Event
}

// WatchClosedMsg is sent once the watcher's channel is closed.
type WatchClosedMsg struct{}
