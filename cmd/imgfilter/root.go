package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"imgfilter/cmd/imgfilter/cli"
	"imgfilter/internal/config"
	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/log"
	"imgfilter/internal/session"

	"github.com/spf13/cobra"
)

// rootOptions is the state shared by every subcommand.
type rootOptions struct {
	cfgFile string
	debug   bool
	theme   string
	cfg     *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "imgfilter",
		Short: "Sort a folder of images into Favorites, Keep and Delete",
		Long: cli.DrawLogo() + `

imgfilter shows the images of a folder one at a time. Each keypress copies
the image into a Favorites, Keep or Delete folder and moves on. At the end
you may delete the originals.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/imgfilter/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.theme, "theme", cli.DefaultTheme.Name, "color theme for command output")

	rootCmd.AddCommand(NewTUICmd(opts))
	rootCmd.AddCommand(NewGUICmd(opts))
	rootCmd.AddCommand(NewScanCmd(opts))
	rootCmd.AddCommand(NewConfigCmd(opts))

	return rootCmd
}

// load reads the configuration and sets up logging on w.
func (o *rootOptions) load(w io.Writer) error {
	if !cli.SetTheme(o.theme) {
		return errors.NewConfigError("unknown theme", o.theme, errors.InvalidConfig, nil)
	}

	var err error
	if o.cfgFile != "" {
		o.cfg, err = config.LoadConfigFile(o.cfgFile)
	} else {
		o.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	logOpts := []log.Option{log.WithOutput(w)}
	if o.cfg.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	log.Configure(logOpts...)
	log.SetDebug(o.debug || o.cfg.Log.Debug)
	log.Debugf("Loaded configuration (collision=%s, dry_run=%t)", o.cfg.Settings.Collision, o.cfg.Settings.DryRun)
	return nil
}

// logToFile sends log output to the configured log file, or nowhere when
// none is set. Full-screen interfaces cannot share the terminal with logs.
func (o *rootOptions) logToFile() (func(), error) {
	path, err := o.cfg.LogFile()
	if err != nil {
		return nil, errors.NewConfigError("invalid log file", "log.file", errors.InvalidConfig, err)
	}

	var w io.Writer = io.Discard
	closer := func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.FileErrorFromOS("failed to create log directory", filepath.Dir(path), err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.FileErrorFromOS("failed to open log file", path, err)
		}
		w = f
		closer = func() { f.Close() }
	}

	logOpts := []log.Option{log.WithOutput(w)}
	if o.cfg.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	log.Configure(logOpts...)
	return closer, nil
}

// resolveDir returns the absolute directory named by args, or the working directory.
func resolveDir(args []string) (string, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "error getting current directory")
		}
		return wd, nil
	}
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "invalid directory %q", args[0])
	}
	return dir, nil
}

// newSession opens dir, printing a notice instead of failing when it holds no images.
func newSession(w io.Writer, dir string, cfg *config.Config) (*session.Session, error) {
	s, err := session.New(dir, cfg)
	if errors.Is(err, images.ErrNoImages) {
		fmt.Fprintln(w, cli.Warning("No images in "+dir))
		return nil, nil
	}
	return s, err
}

// printSummary reports what a finished session did.
func printSummary(w io.Writer, s *session.Session, sum session.Summary) {
	if sum.Total == 0 && !sum.Purged {
		fmt.Fprintln(w, cli.Warning("No images left in "+s.SourceDir()))
		return
	}
	var lines []string
	for _, c := range images.Categories() {
		lines = append(lines, fmt.Sprintf("%-10s %d", s.FolderName(c), sum.Counts[c]))
	}
	if sum.Unclassified > 0 {
		lines = append(lines, fmt.Sprintf("%-10s %d", "Skipped", sum.Unclassified))
	}
	fmt.Fprintln(w, cli.DrawBox(strings.Join(lines, "\n")))
	fmt.Fprintln(w, cli.Info("Copies in "+sum.Root))
	if sum.Purged {
		fmt.Fprintln(w, cli.Success(fmt.Sprintf("Deleted %d original image(s)", sum.Total)))
	} else {
		fmt.Fprintln(w, cli.Info("Originals kept"))
	}
}

