package main

import (
	"imgfilter/internal/log"
	"imgfilter/internal/tui"
	"imgfilter/internal/watch"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal interface command
func NewTUICmd(opts *rootOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "tui [folder]",
		Short: "Sort images in the terminal",
		Long: `Show the images of a folder one at a time in the terminal.

  →  keep       ↑  favorite
  ↓  delete     ←  back

The folder defaults to the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args)
			if err != nil {
				return err
			}

			closeLog, err := opts.logToFile()
			if err != nil {
				return err
			}
			defer closeLog()

			s, err := newSession(cmd.OutOrStdout(), dir, opts.cfg)
			if err != nil || s == nil {
				return err
			}

			var tuiOpts []tui.Option
			if opts.cfg.Watch.Enabled && !noWatch {
				w, err := watch.New(s.Manager().IsImage)
				if err == nil {
					err = w.AddDirectory(dir)
				}
				if err == nil {
					err = w.Start()
				}
				if err != nil {
					log.LogWithError(err).Warn("Folder watching disabled")
				} else {
					defer w.Stop()
					tuiOpts = append(tuiOpts, tui.WithWatcher(w.Events()))
				}
			}

			sum, err := tui.Run(s, tuiOpts...)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s, sum)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "don't report changes to the folder")
	return cmd
}
