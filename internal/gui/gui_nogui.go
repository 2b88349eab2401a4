//go:build nogui
// +build nogui

package gui

import (
	"imgfilter/internal/config"
)

// App is a stub for builds with the GUI disabled
type App struct{}

// NewApp returns the stub App
func NewApp(cfg *config.Config) *App {
	return &App{}
}

// Run always fails in this build
func (a *App) Run(dir string) error {
	return ErrNoGUI
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
