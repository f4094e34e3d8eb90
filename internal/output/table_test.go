package output

import (
	"bytes"
	"strings"
	"testing"
)

func renderLines(t *testing.T, tbl *Table) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
}

func TestVisualLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"plain", "connect", 7},
		{"bold", "\x1b[1mmobile\x1b[0m", 6},
		{"nested sequences", "\x1b[1m\x1b[31m12 canceled\x1b[0m", 11},
		{"block glyphs", "███░░", 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := visualLen(tc.input); got != tc.want {
				t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		input string
		width int
		left  string
		right string
	}{
		{"30", 5, "30   ", "   30"},
		{"360", 3, "360", "360"},
		{"1234", 3, "1234", "1234"},
	}

	for _, tc := range tests {
		if got := pad(tc.input, tc.width); got != tc.left {
			t.Errorf("pad(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.left)
		}
		if got := padLeft(tc.input, tc.width); got != tc.right {
			t.Errorf("padLeft(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.right)
		}
	}
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Threshold", "Friction", "Affected")
	tbl.AddRow("0", "10", "0")
	tbl.AddRow("30", "4", "20")

	lines := renderLines(t, tbl)
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Threshold  Friction  Affected" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Trim(lines[1], "─ ") != "" {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[3] != "30         4         20      " {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTable_WidensToLongestCell(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Car", "Loss")
	tbl.AddRow("1000001", "0.5")

	lines := renderLines(t, tbl)
	if !strings.HasPrefix(lines[1], strings.Repeat("─", 7)+"  ") {
		t.Errorf("separator should span the widest cell, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[0], "Car      Loss") {
		t.Errorf("header not padded to cell width: %q", lines[0])
	}
}

func TestTable_MissingAndExtraValues(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "B")
	tbl.AddRow("only")
	tbl.AddRow("x", "y", "dropped")

	out := tbl.Render()
	if strings.Contains(out, "dropped") {
		t.Error("values beyond the header count should be ignored")
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTable_AlignRight(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Car", "Lost").AlignRight(1)
	tbl.AddRow("1", "100.0")
	tbl.AddRow("2", "5.0")

	lines := renderLines(t, tbl)
	if !strings.HasSuffix(lines[3], "  5.0") {
		t.Errorf("expected right-aligned value, got %q", lines[3])
	}
	if !strings.HasSuffix(lines[0], " Lost") {
		t.Errorf("expected right-aligned header, got %q", lines[0])
	}
}

func TestTable_Empty(t *testing.T) {
	if out := NewTable().Render(); out != "" {
		t.Errorf("expected empty output for a table without headers, got %q", out)
	}
}

func TestTable_Fprint(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Scope")
	tbl.AddRow("mobile")

	var buf bytes.Buffer
	tbl.Fprint(&buf)
	if buf.String() != tbl.String() {
		t.Errorf("Fprint wrote %q, String() is %q", buf.String(), tbl.String())
	}
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	if !IsNoColor() {
		t.Error("IsNoColor() = false after SetNoColor(true)")
	}
	if rendered := StyleHeader.Render("friction"); strings.Contains(rendered, "\x1b[") {
		t.Error("expected no ANSI codes after SetNoColor(true)")
	}

	SetNoColor(false)
	if IsNoColor() {
		t.Error("IsNoColor() = true after SetNoColor(false)")
	}
}
