package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"imgfilter/internal/errors"
	"imgfilter/internal/images"
	"imgfilter/internal/tui/common"
	"imgfilter/internal/tui/styles"
	"imgfilter/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderBanner(m.SourceDir()))
	sb.WriteString("\n")

	switch m.Mode() {
	case common.Done:
		if m.Err() != nil {
			sb.WriteString(RenderError(m.Err()))
		} else {
			sb.WriteString(RenderSummary(m))
		}
	case common.Confirm:
		sb.WriteString(RenderSummary(m))
		sb.WriteString("\n")
		sb.WriteString(RenderConfirm(m))
	default:
		sb.WriteString(renderCurrent(m))
		if m.ShowInfo() && m.Info() != nil {
			sb.WriteString("\n" + RenderInfo(m.Info()))
		}
		if n := m.Pending(); n > 0 {
			sb.WriteString("\n" + styles.Theme.Warning.Render(
				fmt.Sprintf("%d change(s) in the folder, press r to reload", n)))
		}
		if m.Mode() == common.Jump {
			sb.WriteString("\n\n" + m.JumpView())
		}
	}

	if status := m.StatusView(); status != "" {
		sb.WriteString("\n\n" + status)
	}
	if m.Mode() != common.Done {
		sb.WriteString("\n\n" + m.HelpView())
	}

	return styles.Theme.App.Render(sb.String())
}

func renderBanner(dir string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Theme.Title.Render("Image Filter"),
		" ",
		styles.Theme.Status.Render(dir),
	)
}

func renderCurrent(m common.ModelReader) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		styles.Theme.Filename.Render(m.CurrentName()),
		"  ",
		styles.Theme.Progress.Render(m.Progress()),
	)
}

// RenderInfo renders the analysis pane for one image.
func RenderInfo(info *types.ImageInfo) string {
	rows := [][2]string{
		{"Type", info.ContentType},
		{"Size", info.HumanSize()},
		{"Modified", humanize.Time(info.ModTime)},
	}
	if !info.Taken.IsZero() {
		rows = append(rows, [2]string{"Taken", info.Taken.Format("2006-01-02 15:04")})
	}
	if info.Camera != "" {
		rows = append(rows, [2]string{"Camera", info.Camera})
	}
	if !info.IsImage() {
		rows = append(rows, [2]string{"Warning", "content does not look like an image"})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styles.Theme.Label.Render(r[0])+r[1])
	}
	return styles.Theme.Info.Render(strings.Join(lines, "\n"))
}

// RenderSummary lists the per-folder counts of the session.
func RenderSummary(m common.ModelReader) string {
	sum := m.Summary()
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render("Summary") + "\n")
	for _, c := range images.Categories() {
		sb.WriteString(fmt.Sprintf("%s%d\n", styles.Theme.Label.Render(m.FolderName(c)), sum.Counts[c]))
	}
	if sum.Unclassified > 0 {
		sb.WriteString(styles.Theme.Warning.Render(fmt.Sprintf("%d of %d image(s) never classified", sum.Unclassified, sum.Total)) + "\n")
	}
	if sum.Root != "" {
		sb.WriteString(styles.Theme.Status.Render("Copies in "+sum.Root) + "\n")
	}
	if sum.Purged {
		sb.WriteString(styles.Theme.Success.Render(fmt.Sprintf("Deleted %d original image(s)", sum.Total)) + "\n")
	}
	return sb.String()
}

// RenderConfirm renders the purge question.
func RenderConfirm(m common.ModelReader) string {
	sum := m.Summary()
	q := fmt.Sprintf("Delete all %d original image(s) from %s?", sum.Total, filepath.Base(m.SourceDir()))
	return styles.Theme.Prompt.Render(q) + " " + styles.Theme.Status.Render("(y/n)")
}

// RenderError renders a fatal error and the path involved, if any.
func RenderError(err error) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Error.Render("Error: " + err.Error()))
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		sb.WriteString("\n" + styles.Theme.Status.Render("File: "+fileErr.Path()))
	}
	return sb.String()
}
