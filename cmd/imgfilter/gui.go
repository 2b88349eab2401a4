package main

import (
	"imgfilter/internal/gui"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the desktop window command
func NewGUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [folder]",
		Short: "Sort images in a desktop window",
		Long: `Open a window that shows the images of a folder one at a time.
Use the arrow keys to classify them. Without a folder, pick one from the
Folder menu.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return gui.ErrNoGUI
			}
			dir := ""
			if len(args) > 0 {
				var err error
				if dir, err = resolveDir(args); err != nil {
					return err
				}
			}
			return gui.NewApp(opts.cfg).Run(dir)
		},
	}
}
