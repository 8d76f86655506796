package model

import (
	"fmt"
	"strings"
)

// Cell is a single logical table cell. A merged cell occupies a spanning
// rectangle of grid positions; the top-left position is the origin and owns
// the text. Non-origin positions covered by a span hold a Cell value whose
// Origin flag is false and whose Row/Col point back at the origin.
type Cell struct {
	Text    string
	BBox    BBox
	Row     int // row of the owning origin cell
	Col     int // column of the owning origin cell
	RowSpan int
	ColSpan int
	Origin  bool
}

// Table is a reconstructed logical table: a rectangular, gap-free grid of
// cells. Every grid position is covered by exactly one origin cell's span.
type Table struct {
	Grid [][]Cell
	BBox BBox

	// Pages lists the originating page indices. A table merged across a
	// page break lists every contributing page in order.
	Pages []int

	// ColumnBounds holds the x-coordinates of the column boundary lines
	// (len = ColCount+1) when boundary clustering succeeded. Used to match
	// continuation candidates across page breaks.
	ColumnBounds []float64

	// Degraded marks a table built via the one-cell-per-geometry fallback
	// after boundary clustering failed.
	Degraded bool
}

// NewTable creates a table of the given dimensions where every position is
// an empty 1x1 origin cell.
func NewTable(rows, cols int) *Table {
	t := &Table{Grid: make([][]Cell, rows)}
	for r := 0; r < rows; r++ {
		t.Grid[r] = make([]Cell, cols)
		for c := 0; c < cols; c++ {
			t.Grid[r][c] = Cell{Row: r, Col: c, RowSpan: 1, ColSpan: 1, Origin: true}
		}
	}
	return t
}

// RowCount returns the number of grid rows.
func (t *Table) RowCount() int {
	return len(t.Grid)
}

// ColCount returns the number of grid columns.
func (t *Table) ColCount() int {
	if len(t.Grid) == 0 {
		return 0
	}
	return len(t.Grid[0])
}

// At returns the cell value stored at (row, col), or nil if out of bounds.
// For positions covered by a merged span this is the placeholder pointing
// at the origin; use OriginAt for the owning cell.
func (t *Table) At(row, col int) *Cell {
	if row < 0 || row >= len(t.Grid) {
		return nil
	}
	if col < 0 || col >= len(t.Grid[row]) {
		return nil
	}
	return &t.Grid[row][col]
}

// OriginAt returns the origin cell whose span covers (row, col), or nil if
// out of bounds.
func (t *Table) OriginAt(row, col int) *Cell {
	cell := t.At(row, col)
	if cell == nil {
		return nil
	}
	if cell.Origin {
		return cell
	}
	return t.At(cell.Row, cell.Col)
}

// SetSpan makes the cell at (row, col) an origin spanning rowSpan x colSpan
// positions, overwriting the covered placeholders. It returns an error if
// the span exceeds the grid bounds.
func (t *Table) SetSpan(row, col, rowSpan, colSpan int) error {
	if rowSpan < 1 || colSpan < 1 {
		return fmt.Errorf("span %dx%d at (%d,%d): spans must be at least 1", rowSpan, colSpan, row, col)
	}
	if row < 0 || col < 0 || row+rowSpan > t.RowCount() || col+colSpan > t.ColCount() {
		return fmt.Errorf("span %dx%d at (%d,%d) exceeds %dx%d grid", rowSpan, colSpan, row, col, t.RowCount(), t.ColCount())
	}
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			t.Grid[r][c] = Cell{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan}
		}
	}
	origin := &t.Grid[row][col]
	origin.Origin = true
	return nil
}

// Validate checks the coverage invariant: the grid is rectangular and every
// position is covered by exactly one origin cell's span rectangle.
func (t *Table) Validate() error {
	rows, cols := t.RowCount(), t.ColCount()
	for r := 0; r < rows; r++ {
		if len(t.Grid[r]) != cols {
			return fmt.Errorf("row %d has %d columns, want %d", r, len(t.Grid[r]), cols)
		}
		for c := 0; c < cols; c++ {
			cell := &t.Grid[r][c]
			origin := t.OriginAt(r, c)
			if origin == nil || !origin.Origin {
				return fmt.Errorf("position (%d,%d) has no origin cell", r, c)
			}
			if r < origin.Row || r >= origin.Row+origin.RowSpan ||
				c < origin.Col || c >= origin.Col+origin.ColSpan {
				return fmt.Errorf("position (%d,%d) outside span of origin (%d,%d)", r, c, origin.Row, origin.Col)
			}
			if cell.Origin && (cell.Row != r || cell.Col != c) {
				return fmt.Errorf("origin cell at (%d,%d) claims position (%d,%d)", r, c, cell.Row, cell.Col)
			}
		}
	}
	return nil
}

// AppendRows appends the rows of other below t, shifting their row indices.
// The two tables must have the same column count. Page attribution and the
// bounding box are extended; other is not modified.
func (t *Table) AppendRows(other *Table) error {
	if other.ColCount() != t.ColCount() {
		return fmt.Errorf("column count mismatch: %d vs %d", t.ColCount(), other.ColCount())
	}
	offset := t.RowCount()
	for _, row := range other.Grid {
		shifted := make([]Cell, len(row))
		for c, cell := range row {
			cell.Row += offset
			shifted[c] = cell
		}
		t.Grid = append(t.Grid, shifted)
	}
	t.BBox = t.BBox.Union(other.BBox)
	for _, p := range other.Pages {
		if len(t.Pages) == 0 || t.Pages[len(t.Pages)-1] != p {
			t.Pages = append(t.Pages, p)
		}
	}
	if other.Degraded {
		t.Degraded = true
	}
	return nil
}

// GetText renders the table as tab-separated rows. Positions covered by a
// merged span render as empty fields; the origin position carries the text.
func (t *Table) GetText() string {
	var sb strings.Builder
	for r, row := range t.Grid {
		for c := range row {
			if c > 0 {
				sb.WriteString("\t")
			}
			if cell := &t.Grid[r][c]; cell.Origin {
				sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. The first row is
// treated as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Grid) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(r int) {
		for c := range t.Grid[r] {
			sb.WriteString("| ")
			if cell := &t.Grid[r][c]; cell.Origin {
				sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(0)
	for range t.Grid[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for r := 1; r < len(t.Grid); r++ {
		writeRow(r)
	}
	return sb.String()
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for r, row := range t.Grid {
		for c := range row {
			if c > 0 {
				sb.WriteString(",")
			}
			cell := &t.Grid[r][c]
			if !cell.Origin {
				continue
			}
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
