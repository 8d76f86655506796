package tables

import (
	"testing"

	"github.com/docmosaic/mosaic/model"
)

func cell(x0, y0, x1, y1 float64) model.CellGeometry {
	return model.CellGeometry{BBox: model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func token(text string, x0, y0, x1, y1 float64) model.Token {
	return model.Token{
		Text:       text,
		BBox:       model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Confidence: 0.9,
	}
}

func tableRegion(tokens ...model.Token) *model.Region {
	return &model.Region{
		BBox:   model.BBox{X0: 0, Y0: 0, X1: 100, Y1: 40},
		Label:  model.LabelTable,
		Tokens: tokens,
	}
}

func TestNewReconstructor(t *testing.T) {
	rc := New()
	if rc == nil {
		t.Fatal("New returned nil")
	}
	if rc.config.BoundaryTolerance != 0 {
		t.Errorf("Expected automatic tolerance by default, got %g", rc.config.BoundaryTolerance)
	}
	if rc.config.MinAutoTolerance != 2.0 {
		t.Errorf("Expected MinAutoTolerance 2.0, got %g", rc.config.MinAutoTolerance)
	}
}

func TestReconstructNoCells(t *testing.T) {
	rc := New()
	if table := rc.Reconstruct(tableRegion(), nil); table != nil {
		t.Error("Expected nil table for no cell geometry")
	}
}

func TestReconstructSimpleGrid(t *testing.T) {
	rc := New()
	cells := []model.CellGeometry{
		cell(0, 0, 50, 20),
		cell(50, 0, 100, 20),
		cell(0, 20, 50, 40),
		cell(50, 20, 100, 40),
	}
	region := tableRegion(
		token("a", 5, 5, 15, 15),
		token("b", 55, 5, 65, 15),
		token("c", 5, 25, 15, 35),
		token("d", 55, 25, 65, 35),
	)

	table := rc.Reconstruct(region, cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d", table.RowCount(), table.ColCount())
	}
	if table.Degraded {
		t.Error("Clean geometry should not produce a degraded table")
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Reconstructed table should validate: %v", err)
	}
	if len(table.ColumnBounds) != 3 {
		t.Errorf("Expected 3 column bounds, got %d", len(table.ColumnBounds))
	}

	want := [][]string{{"a", "b"}, {"c", "d"}}
	for r := range want {
		for c := range want[r] {
			if got := table.At(r, c).Text; got != want[r][c] {
				t.Errorf("Cell (%d,%d): expected %q, got %q", r, c, want[r][c], got)
			}
		}
	}
}

func TestReconstructToleratesJitter(t *testing.T) {
	rc := New()
	// Edges jittered by a couple of page units must still cluster into the
	// same boundary lines.
	cells := []model.CellGeometry{
		cell(0, 0, 51, 21),
		cell(49, 1, 100, 20),
		cell(1, 19, 50, 40),
		cell(51, 21, 99, 39),
	}

	table := rc.Reconstruct(tableRegion(), cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Errorf("Expected 2x2 grid despite jitter, got %dx%d", table.RowCount(), table.ColCount())
	}
	if table.Degraded {
		t.Error("Jittered but consistent geometry should not degrade")
	}
}

func TestReconstructColumnSpan(t *testing.T) {
	rc := New()
	// A header cell spanning both columns above a regular row.
	cells := []model.CellGeometry{
		cell(0, 0, 100, 20),
		cell(0, 20, 50, 40),
		cell(50, 20, 100, 40),
	}
	region := tableRegion(token("header", 30, 5, 70, 15))

	table := rc.Reconstruct(region, cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d", table.RowCount(), table.ColCount())
	}

	origin := table.At(0, 0)
	if !origin.Origin || origin.ColSpan != 2 {
		t.Errorf("Expected origin at (0,0) with colspan 2, got %+v", origin)
	}
	if table.At(0, 1).Origin {
		t.Error("Position (0,1) should be covered by the span, not an origin")
	}
	if origin.Text != "header" {
		t.Errorf("Expected spanning cell to own the header token, got %q", origin.Text)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Spanned table should validate: %v", err)
	}
}

func TestReconstructFillsGapsWithEmptyCells(t *testing.T) {
	rc := New()
	// Three detected cells in a 2x2 boundary grid: the missing position must
	// become an empty origin cell, not a hole.
	cells := []model.CellGeometry{
		cell(0, 0, 50, 20),
		cell(50, 0, 100, 20),
		cell(0, 20, 50, 40),
	}

	table := rc.Reconstruct(tableRegion(), cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d", table.RowCount(), table.ColCount())
	}
	gap := table.At(1, 1)
	if gap == nil || !gap.Origin || gap.Text != "" {
		t.Errorf("Expected empty origin cell at gap position, got %+v", gap)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Gap-filled table should validate: %v", err)
	}
}

func TestReconstructFallbackOnDoubleClaim(t *testing.T) {
	rc := New()
	// Two identical cells claim the same grid position; the reconstructor
	// must degrade rather than fail.
	cells := []model.CellGeometry{
		cell(0, 0, 50, 20),
		cell(0, 0, 50, 20),
	}
	region := tableRegion(token("x", 5, 5, 15, 15))

	table := rc.Reconstruct(region, cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if !table.Degraded {
		t.Error("Expected degraded table for double-claimed geometry")
	}
	if table.ColCount() != 1 {
		t.Errorf("Expected single-column fallback, got %d cols", table.ColCount())
	}
	if table.RowCount() != 2 {
		t.Errorf("Expected one row per detection, got %d rows", table.RowCount())
	}
}

func TestReconstructFallbackOnDegenerateEdges(t *testing.T) {
	rc := New()
	// Zero-height geometry collapses all row boundaries into one.
	cells := []model.CellGeometry{cell(0, 0, 100, 0)}

	table := rc.Reconstruct(tableRegion(), cells)
	if table == nil {
		t.Fatal("Reconstruct returned nil")
	}
	if !table.Degraded {
		t.Error("Expected degraded table for degenerate geometry")
	}
}

func TestClusterCoords(t *testing.T) {
	got := clusterCoords([]float64{0, 1, 2, 50, 51, 100}, 3)
	if len(got) != 3 {
		t.Fatalf("Expected 3 clusters, got %d: %v", len(got), got)
	}
	if got[0] != 1 || got[1] != 50.5 || got[2] != 100 {
		t.Errorf("Unexpected cluster means: %v", got)
	}
}

func TestNearestIndex(t *testing.T) {
	bounds := []float64{0, 50, 100}
	if got := nearestIndex(bounds, 48); got != 1 {
		t.Errorf("Expected index 1 for 48, got %d", got)
	}
	if got := nearestIndex(bounds, 10); got != 0 {
		t.Errorf("Expected index 0 for 10, got %d", got)
	}
	if got := nearestIndex(bounds, 200); got != 2 {
		t.Errorf("Expected index 2 for 200, got %d", got)
	}
}
