package main

import (
	"fmt"
	"os"

	"imgfilter/cmd/imgfilter/cli"
	"imgfilter/internal/config"
	"imgfilter/internal/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command
func NewConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts), newConfigShowCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return errors.Wrap(err, "cannot locate home directory")
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewFileError("config file already exists, use --force to replace it", path, errors.FileExists, nil)
			}

			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Wrote "+path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(opts.cfg)
			if err != nil {
				return errors.Wrap(err, "failed to marshal config")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
