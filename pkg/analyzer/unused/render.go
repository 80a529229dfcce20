package unused

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"minisweep/internal/output"
	"minisweep/pkg/graph"
)

// RenderData returns the analysis for JSON serialization.
func (a *Analysis) RenderData() any {
	return a
}

// RenderText writes the human-readable report: summary counts, the unused
// file list, and any warnings.
func (a *Analysis) RenderText(w io.Writer, colored bool) error {
	title := "Unused Files"
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Root:      %s\n", a.Root)
	fmt.Fprintf(w, "Scanned:   %d files\n", a.Summary.TotalFiles)
	fmt.Fprintf(w, "Reachable: %d nodes\n", a.Summary.ReachableCount)
	fmt.Fprintf(w, "Unused:    %d files (%s)\n", a.Summary.UnusedCount, formatBytes(a.Summary.UnusedBytes))
	fmt.Fprintln(w)

	if len(a.UnusedFiles) == 0 {
		if colored {
			color.New(color.FgGreen).Fprintln(w, "No unused files found.")
		} else {
			fmt.Fprintln(w, "No unused files found.")
		}
		return a.renderWarningsText(w, colored)
	}

	table := &output.Table{
		Headers: []string{"File", "Size"},
		Rows:    make([][]string, 0, len(a.UnusedFiles)),
	}
	for _, rel := range a.UnusedFiles {
		size := ""
		if node := a.Graph.Node(a.nodeIDFor(rel)); node != nil {
			size = formatBytes(node.Properties.Size)
		}
		table.Rows = append(table.Rows, []string{rel, size})
	}
	table.Footer = []string{
		fmt.Sprintf("%d files", a.Summary.UnusedCount),
		formatBytes(a.Summary.UnusedBytes),
	}
	if err := table.RenderText(w, colored); err != nil {
		return err
	}
	return a.renderWarningsText(w, colored)
}

func (a *Analysis) renderWarningsText(w io.Writer, colored bool) error {
	if len(a.Warnings) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Warnings (%d)\n", len(a.Warnings))
	fmt.Fprintln(w, strings.Repeat("-", len(fmt.Sprintf("Warnings (%d)", len(a.Warnings)))))
	for _, warn := range a.Warnings {
		line := formatWarning(warn)
		if colored && warn.Elevated {
			color.New(color.FgRed).Fprintln(w, line)
		} else if colored {
			color.New(color.FgYellow).Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// RenderMarkdown writes the report as a markdown document.
func (a *Analysis) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "# Unused Files")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- Root: `%s`\n", a.Root)
	fmt.Fprintf(w, "- Scanned: %d files\n", a.Summary.TotalFiles)
	fmt.Fprintf(w, "- Reachable: %d nodes\n", a.Summary.ReachableCount)
	fmt.Fprintf(w, "- Unused: %d files (%s)\n", a.Summary.UnusedCount, formatBytes(a.Summary.UnusedBytes))
	fmt.Fprintln(w)

	if len(a.UnusedFiles) > 0 {
		table := &output.Table{
			Title:   "Files",
			Headers: []string{"File", "Size"},
		}
		for _, rel := range a.UnusedFiles {
			size := ""
			if node := a.Graph.Node(a.nodeIDFor(rel)); node != nil {
				size = formatBytes(node.Properties.Size)
			}
			table.Rows = append(table.Rows, []string{fmt.Sprintf("`%s`", rel), size})
		}
		if err := table.RenderMarkdown(w); err != nil {
			return err
		}
	}

	if len(a.Warnings) > 0 {
		fmt.Fprintln(w, "## Warnings")
		fmt.Fprintln(w)
		for _, warn := range a.Warnings {
			fmt.Fprintf(w, "- %s\n", formatWarning(warn))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// nodeIDFor maps a root-relative unused path back to its graph node id.
func (a *Analysis) nodeIDFor(rel string) string {
	if a.labelIndex == nil {
		a.labelIndex = make(map[string]string)
		for _, id := range a.Graph.NodesByKind(graph.KindModule) {
			if node := a.Graph.Node(id); node != nil {
				a.labelIndex[node.Label] = id
			}
		}
	}
	return a.labelIndex[rel]
}

func formatWarning(w Warning) string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	if w.Path != "" {
		b.WriteString(" ")
		b.WriteString(w.Path)
	}
	if w.Ref != "" {
		fmt.Fprintf(&b, " (%s)", w.Ref)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
