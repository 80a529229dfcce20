package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"minisweep/internal/output"
	"minisweep/internal/progress"
	"minisweep/pkg/analyzer/unused"
	"minisweep/pkg/config"
	"minisweep/pkg/graph"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPath returns the project root from positional args, defaulting to "."
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func main() {
	app := &cli.App{
		Name:    "minisweep",
		Usage:   "Find unused files in mini-program source trees",
		Version: version,
		Description: `Minisweep builds a dependency graph from app.json, pages, components,
templates, stylesheets, and scripts, then reports every file no entry
point can reach.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"MINISWEEP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
			&cli.StringFlag{
				Name:  "miniapp-root",
				Usage: "Directory containing app.json, relative to the project root",
			},
			&cli.StringFlag{
				Name:  "entry",
				Usage: "Explicit entry file, overriding app.json discovery",
			},
			&cli.StringSliceFlag{
				Name:  "essential",
				Usage: "Files always treated as used",
			},
			&cli.StringSliceFlag{
				Name:  "keep",
				Usage: "Glob patterns never reported as unused",
			},
			&cli.BoolFlag{
				Name:  "include-assets",
				Usage: "Report unused image assets too",
			},
			&cli.StringSliceFlag{
				Name:  "types",
				Usage: "File extensions to scan (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additional exclusion patterns (gitignore syntax)",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			graphCmd(),
			treeCmd(),
			cleanCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault(root)
	}

	if types := c.StringSlice("types"); len(types) > 0 {
		cfg.Scan.FileTypes = types
	}
	cfg.Scan.Patterns = append(cfg.Scan.Patterns, c.StringSlice("exclude")...)
	return cfg, nil
}

func buildAnalyzer(c *cli.Context, cfg *config.Config, spinner *progress.Tracker) *unused.Analyzer {
	opts := []unused.Option{
		unused.WithLogger(slog.Default()),
	}
	if spinner != nil {
		opts = append(opts, unused.WithProgress(spinner.Tick))
	}
	if v := c.String("miniapp-root"); v != "" {
		opts = append(opts, unused.WithMiniappRoot(v))
	}
	if v := c.String("entry"); v != "" {
		opts = append(opts, unused.WithEntryFile(v))
	}
	if v := c.StringSlice("essential"); len(v) > 0 {
		opts = append(opts, unused.WithEssentialFiles(v...))
	}
	if v := c.StringSlice("keep"); len(v) > 0 {
		opts = append(opts, unused.WithKeepPatterns(v...))
	}
	if c.Bool("include-assets") {
		opts = append(opts, unused.WithIncludeAssets())
	}
	return unused.New(cfg, opts...)
}

func runAnalysis(c *cli.Context) (*unused.Analysis, error) {
	root, err := filepath.Abs(getPath(c))
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", getPath(c), err)
	}
	cfg, err := loadConfig(c, root)
	if err != nil {
		return nil, err
	}

	spinner := progress.NewSpinner("Analyzing...")
	analysis, err := buildAnalyzer(c, cfg, spinner).Analyze(c.Context, root)
	if err != nil {
		spinner.FinishError(err)
		return nil, err
	}
	spinner.FinishSuccess()
	return analysis, nil
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"unused"},
		Usage:     "Report files unreachable from the app entry points",
		ArgsUsage: "[path]",
		Action:    runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	analysis, err := runAnalysis(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(analysis)
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Export the dependency graph",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "renderer",
				Value: "mermaid",
				Usage: "Graph renderer: mermaid, dot",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include PageRank and cycle metrics",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	analysis, err := runAnalysis(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if output.ParseFormat(c.String("format")) == output.FormatJSON {
		if c.Bool("metrics") {
			return formatter.Output(struct {
				Graph   any `json:"graph"`
				Metrics any `json:"metrics"`
			}{analysis.Serialized, analysis.Graph.Rank()})
		}
		return formatter.Output(analysis.Serialized)
	}

	w := formatter.Writer()
	switch c.String("renderer") {
	case "dot":
		if err := analysis.Graph.WriteDOT(w); err != nil {
			return err
		}
	default:
		if err := analysis.Graph.WriteMermaid(w); err != nil {
			return err
		}
	}

	if c.Bool("metrics") {
		ranking := analysis.Graph.Rank()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Nodes: %d\n", ranking.Summary.TotalNodes)
		fmt.Fprintf(w, "Edges: %d\n", ranking.Summary.TotalEdges)
		if ranking.Summary.IsCyclic {
			fmt.Fprintf(w, "Cycles: %d\n", len(ranking.Summary.Cycles))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top nodes by PageRank:")
		for i, nr := range ranking.Nodes {
			if i >= 10 {
				break
			}
			fmt.Fprintf(w, "  %s: %.4f (in: %d, out: %d)\n", nr.ID, nr.PageRank, nr.InDegree, nr.OutDegree)
		}
	}
	return nil
}

func treeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the dependency tree from the app entry",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Value: "app",
				Usage: "Node id to use as tree root",
			},
		},
		Action: runTreeCmd,
	}
}

func runTreeCmd(c *cli.Context) error {
	analysis, err := runAnalysis(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	tree := analysis.Graph.ToTree(c.String("root"))
	if tree == nil {
		return fmt.Errorf("node %q not found in graph", c.String("root"))
	}

	if output.ParseFormat(c.String("format")) == output.FormatJSON {
		return formatter.Output(tree)
	}
	printTree(formatter.Writer(), tree, "", true)
	return nil
}

func printTree(w io.Writer, node *graph.TreeNode, prefix string, last bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if prefix == "" && connector == "└── " {
		connector = ""
		childPrefix = ""
	}

	label := node.Label
	if node.Kind != graph.KindModule {
		label = fmt.Sprintf("%s (%s)", label, node.Kind)
	}
	if node.Cycle {
		label += " [cycle]"
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, connector, label)

	for i, child := range node.Children {
		printTree(w, child, childPrefix, i == len(node.Children)-1)
	}
}

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Delete unused files (dry run by default)",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Actually delete files instead of listing them",
			},
		},
		Action: runCleanCmd,
	}
}

func runCleanCmd(c *cli.Context) error {
	root, err := filepath.Abs(getPath(c))
	if err != nil {
		return err
	}

	analysis, err := runAnalysis(c)
	if err != nil {
		return err
	}

	if len(analysis.UnusedFiles) == 0 {
		color.Green("No unused files to remove.")
		return nil
	}

	if !c.Bool("force") {
		fmt.Printf("Would remove %d files (run with --force to delete):\n", len(analysis.UnusedFiles))
		for _, rel := range analysis.UnusedFiles {
			fmt.Printf("  %s\n", rel)
		}
		return nil
	}

	removed := 0
	for _, rel := range analysis.UnusedFiles {
		path := filepath.Join(root, rel)
		if err := os.Remove(path); err != nil {
			color.Yellow("Failed to remove %s: %v", rel, err)
			continue
		}
		removed++
	}
	color.Green("Removed %d of %d unused files.", removed, len(analysis.UnusedFiles))
	return nil
}
