package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"", FormatText},
		{"invalid", FormatText},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewFormatterFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if f.Colored() {
		t.Error("file output must disable color")
	}

	if err := f.Output(map[string]int{"unused": 2}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got["unused"] != 2 {
		t.Errorf("decoded = %v", got)
	}
}

func sampleTable() *Table {
	return &Table{
		Title:   "Unused Files",
		Headers: []string{"File", "Size"},
		Rows: [][]string{
			{"utils/dead.js", "1.2 KB"},
			{"assets/orphan.png", "4.0 KB"},
		},
		Footer: []string{"Total", "5.2 KB"},
	}
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Unused Files", "utils/dead.js", "assets/orphan.png", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTable().RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "## Unused Files") {
		t.Errorf("markdown output missing title:\n%s", out)
	}
	if !strings.Contains(out, "| File | Size |") {
		t.Errorf("markdown output missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| --- | --- |") {
		t.Errorf("markdown output missing separator row:\n%s", out)
	}
	if !strings.Contains(out, "| utils/dead.js | 1.2 KB |") {
		t.Errorf("markdown output missing data row:\n%s", out)
	}
}

func TestTableRenderData(t *testing.T) {
	rows, ok := sampleTable().RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want row maps", sampleTable().RenderData())
	}
	if len(rows) != 2 || rows[0]["File"] != "utils/dead.js" || rows[1]["Size"] != "4.0 KB" {
		t.Errorf("rows = %v", rows)
	}

	override := &Table{Data: []string{"x"}}
	if got, ok := override.RenderData().([]string); !ok || got[0] != "x" {
		t.Errorf("Data override ignored: %v", override.RenderData())
	}
}

func TestOutputDispatchesRenderable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	f, err := NewFormatter(FormatMarkdown, path, false)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if err := f.Output(sampleTable()); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "## Unused Files") {
		t.Errorf("markdown dispatch missed:\n%s", data)
	}
}
