package gui

import "imgfilter/internal/errors"

// ErrNoGUI is returned by builds with the GUI disabled.
var ErrNoGUI = errors.New("GUI is disabled in this build, use the tui command")

