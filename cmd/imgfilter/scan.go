package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"imgfilter/cmd/imgfilter/cli"
	"imgfilter/internal/analysis"
	"imgfilter/internal/config"
	"imgfilter/internal/images"
	"imgfilter/internal/session"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool
	var detailedScan bool
	var category string

	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "List the images a session would show",
		Long: `List the images of a folder in the order a session shows them, with
their detected type and size. Files whose content is not an image are flagged.

With --category the newest session folder of that category is listed instead,
e.g. "scan --category keep ~/Pictures".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args)
			if err != nil {
				return err
			}
			if category != "" {
				if dir, err = categoryDir(dir, category, opts.cfg); err != nil {
					return err
				}
			}

			results, err := analysis.NewWithConfig(opts.cfg).ScanDirectory(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				for _, info := range results {
					fmt.Fprintln(out, info.ToJSON())
				}
				return nil
			}

			fmt.Fprintln(out, cli.Header("Images in "+dir))
			if len(results) == 0 {
				fmt.Fprintln(out, cli.Warning("No images found"))
				return nil
			}

			var total int64
			suspect := 0
			if detailedScan {
				for _, info := range results {
					fmt.Fprintln(out, info.String())
				}
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, info := range results {
				total += info.Size
				mark := ""
				if !info.IsImage() {
					suspect++
					mark = "not an image"
				}
				if !detailedScan {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name(), info.ContentType, info.HumanSize(), mark)
				}
			}
			tw.Flush()

			fmt.Fprintln(out, cli.Info(fmt.Sprintf("%d image(s), %s", len(results), humanize.Bytes(uint64(total)))))
			if suspect > 0 {
				fmt.Fprintln(out, cli.Warning(fmt.Sprintf("%d file(s) do not look like images", suspect)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output one JSON object per image")
	cmd.Flags().BoolVar(&detailedScan, "detailed", false, "show metadata for every image")
	cmd.Flags().StringVar(&category, "category", "", "list the latest session's favorite, keep or delete folder")
	return cmd
}

// categoryDir is the folder of the newest session in dir that holds images
// sorted into name.
func categoryDir(dir, name string, cfg *config.Config) (string, error) {
	c, err := images.ParseCategory(name)
	if err != nil {
		return "", err
	}
	root, err := session.LatestRoot(dir, cfg)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, session.FolderFor(cfg, c)), nil
}
