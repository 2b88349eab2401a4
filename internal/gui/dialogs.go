//go:build !nogui
// +build !nogui

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// prompter is the set of modal dialogs the window uses.
type prompter interface {
	Confirm(title, message string, callback func(bool))
	Error(err error, onClosed func())
	Info(title, message string, onClosed func())
}

type dialogPrompter struct {
	win fyne.Window
}

func (p dialogPrompter) Confirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, p.win)
}

func (p dialogPrompter) Error(err error, onClosed func()) {
	d := dialog.NewError(err, p.win)
	if onClosed != nil {
		d.SetOnClosed(onClosed)
	}
	d.Show()
}

func (p dialogPrompter) Info(title, message string, onClosed func()) {
	d := dialog.NewInformation(title, message, p.win)
	if onClosed != nil {
		d.SetOnClosed(onClosed)
	}
	d.Show()
}

// showFolderOpen asks for a directory and calls open with its path.
func showFolderOpen(win fyne.Window, open func(dir string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if uri == nil {
			// cancelled
			return
		}
		open(uri.Path())
	}, win)
}
