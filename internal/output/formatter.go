// Package output renders analysis results as text, JSON, or markdown.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format selects how results are written.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name to a Format. Unrecognized
// names fall back to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	}
	return FormatText
}

// Renderable is a result that knows how to present itself per format.
// RenderData supplies the value handed to the JSON encoder.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// Formatter routes results to stdout or a file in one configured format.
// Writing to a file turns color off.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	f := &Formatter{format: format, writer: os.Stdout, colored: colored}
	if output != "" {
		out, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		f.writer = out
		f.file = out
		f.colored = false
	}
	return f, nil
}

// Close releases the output file, if any.
func (f *Formatter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func (f *Formatter) Writer() io.Writer { return f.writer }

func (f *Formatter) Colored() bool { return f.colored }

// Output writes data in the configured format. Values that are not
// Renderable are always emitted as JSON.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	if !ok {
		return f.encodeJSON(data)
	}
	switch f.format {
	case FormatJSON:
		return f.encodeJSON(r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	}
	return r.RenderText(f.writer, f.colored)
}

func (f *Formatter) encodeJSON(data any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) statusLine(c *color.Color, prefix, format string, args ...any) {
	if f.colored {
		c.Fprintf(f.writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.writer, prefix+format+"\n", args...)
}

// Success prints a confirmation line, green when colored.
func (f *Formatter) Success(format string, args ...any) {
	f.statusLine(color.New(color.FgGreen), "", format, args...)
}

// Warning prints a warning line, yellow when colored.
func (f *Formatter) Warning(format string, args ...any) {
	f.statusLine(color.New(color.FgYellow), "WARNING: ", format, args...)
}

// Error prints an error line, red when colored.
func (f *Formatter) Error(format string, args ...any) {
	f.statusLine(color.New(color.FgRed), "ERROR: ", format, args...)
}

// Table is a Renderable tabular result. Data, when set, overrides the
// row-derived value used for JSON output.
type Table struct {
	Title   string     `json:"-"`
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	Footer  []string   `json:"-"`
	Data    any        `json:"data,omitempty"`
}

func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	rows := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				m[h] = row[j]
			}
		}
		rows[i] = m
	}
	return rows
}

// plainRendition strips borders and column separators so tables read as
// aligned text rather than boxes.
func plainRendition() tw.Rendition {
	return tw.Rendition{
		Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
		Settings: tw.Settings{
			Separators: tw.Separators{BetweenColumns: tw.Off},
		},
	}
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		if colored {
			color.New(color.Bold).Fprintln(w, t.Title)
		} else {
			fmt.Fprintln(w, t.Title)
		}
		fmt.Fprintln(w, strings.Repeat("=", len(t.Title)))
		fmt.Fprintln(w)
	}

	left := tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}}
	header := left
	header.Formatting.AutoFormat = tw.On

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{Header: header, Row: left, Footer: left}),
		tablewriter.WithRendition(plainRendition()),
	)
	table.Header(t.Headers)
	for _, row := range t.Rows {
		table.Append(row)
	}
	if len(t.Footer) > 0 {
		cells := make([]any, len(t.Footer))
		for i, cell := range t.Footer {
			cells[i] = cell
		}
		table.Footer(cells...)
	}
	table.Render()
	fmt.Fprintln(w)
	return nil
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	writeRow := func(cells []string) {
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	writeRow(t.Headers)
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	writeRow(seps)
	for _, row := range t.Rows {
		writeRow(row)
	}
	if len(t.Footer) > 0 {
		writeRow(t.Footer)
	}
	fmt.Fprintln(w)
	return nil
}
