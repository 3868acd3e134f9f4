// Package table renders aligned text tables for terminal output.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style defines the visual styling for tables
type Style struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator string
}

// PlainStyle returns a plain table style with no colors
func PlainStyle() Style {
	return Style{
		Header:    lipgloss.NewStyle().Bold(true).PaddingRight(2),
		Cell:      lipgloss.NewStyle().PaddingRight(2),
		Separator: "",
	}
}

// Table is a simple column aligned table.
// Cell widths are measured with lipgloss.Width so colored cells line up.
type Table struct {
	headers   []string
	rows      [][]string
	style     Style
	alignment []lipgloss.Position
}

// New creates a new table with plain styling
func New(headers ...string) *Table {
	t := &Table{style: PlainStyle()}
	t.SetHeaders(headers)
	return t
}

// SetHeaders sets the table headers
func (t *Table) SetHeaders(headers []string) {
	t.headers = headers
	if len(t.alignment) < len(headers) {
		for range len(headers) - len(t.alignment) {
			t.alignment = append(t.alignment, lipgloss.Left)
		}
	}
}

// SetColumnAlignment sets the alignment of column i
func (t *Table) SetColumnAlignment(i int, align lipgloss.Position) {
	for len(t.alignment) <= i {
		t.alignment = append(t.alignment, lipgloss.Left)
	}
	t.alignment[i] = align
}

// SetStyle changes the table style
func (t *Table) SetStyle(style Style) {
	t.style = style
}

// AppendRow adds a single row to the table
func (t *Table) AppendRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) columnWidths() []int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

func (t *Table) renderRow(row []string, widths []int, style lipgloss.Style) string {
	cells := make([]string, 0, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := lipgloss.Left
		if i < len(t.alignment) {
			align = t.alignment[i]
		}
		s := style
		if i == len(widths)-1 {
			s = s.PaddingRight(0)
		}
		cells = append(cells, s.Width(width+s.GetPaddingRight()).Align(align).Render(cell))
	}
	return strings.TrimRight(strings.Join(cells, t.style.Separator), " ")
}

// Render generates the complete table as a string
func (t *Table) Render() string {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return ""
	}
	widths := t.columnWidths()

	var out strings.Builder
	if len(t.headers) > 0 {
		out.WriteString(t.renderRow(t.headers, widths, t.style.Header))
		out.WriteString("\n")
		seps := make([]string, len(widths))
		for i, w := range widths {
			seps[i] = strings.Repeat("-", w)
		}
		out.WriteString(strings.Join(seps, strings.Repeat(" ", t.style.Cell.GetPaddingRight())+t.style.Separator))
		out.WriteString("\n")
	}
	for _, row := range t.rows {
		out.WriteString(t.renderRow(row, widths, t.style.Cell))
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}
