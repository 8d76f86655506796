package tables

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/docmosaic/mosaic/model"
)

// Config holds configuration for table grid reconstruction.
type Config struct {
	// BoundaryTolerance is the maximum distance between edge coordinates
	// clustered into the same row or column boundary line. Zero selects an
	// automatic tolerance proportional to the median detected cell height,
	// which adapts to scanned vs born-digital page resolutions.
	// Default: 0 (automatic)
	BoundaryTolerance float64

	// MinAutoTolerance is the floor for the automatic tolerance, in page
	// units. Default: 2.0
	MinAutoTolerance float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BoundaryTolerance: 0,
		MinAutoTolerance:  2.0,
	}
}

// Reconstructor converts raw cell geometry inside a table region into a
// logical grid with row/column spans and fills each cell with the tokens
// it contains.
type Reconstructor struct {
	config Config
	logger *slog.Logger
}

// New creates a reconstructor with default configuration.
func New() *Reconstructor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a reconstructor with custom configuration.
func NewWithConfig(config Config) *Reconstructor {
	return &Reconstructor{config: config, logger: slog.Default()}
}

// SetLogger replaces the logger used for degradation warnings.
func (rc *Reconstructor) SetLogger(logger *slog.Logger) {
	if logger != nil {
		rc.logger = logger
	}
}

// Reconstruct builds the logical table for a region from detected cell
// geometry. Tokens are taken from the region (they were assigned to it
// during region resolution). Returns nil when there is no cell geometry to
// work with. Geometry that defeats boundary clustering yields a degraded
// one-cell-per-detection table, never an error.
func (rc *Reconstructor) Reconstruct(region *model.Region, cells []model.CellGeometry) *model.Table {
	if len(cells) == 0 {
		return nil
	}

	tol := rc.tolerance(cells)
	xs := clusterCoords(collectEdges(cells, false), tol)
	ys := clusterCoords(collectEdges(cells, true), tol)

	rows, cols := len(ys)-1, len(xs)-1
	if rows < 1 || cols < 1 {
		rc.logger.Warn("boundary clustering produced empty grid, using fallback",
			"page", region.Page, "cells", len(cells))
		return rc.fallback(region, cells)
	}

	table, ok := rc.buildGrid(region, cells, xs, ys)
	if !ok {
		rc.logger.Warn("inconsistent cell spans, using fallback",
			"page", region.Page, "cells", len(cells), "rows", rows, "cols", cols)
		return rc.fallback(region, cells)
	}

	rc.fillTokens(table, region.Tokens)
	return table
}

// tolerance resolves the clustering tolerance, deriving it from the median
// cell height when not configured explicitly.
func (rc *Reconstructor) tolerance(cells []model.CellGeometry) float64 {
	if rc.config.BoundaryTolerance > 0 {
		return rc.config.BoundaryTolerance
	}
	heights := make([]float64, len(cells))
	for i, c := range cells {
		heights[i] = c.BBox.Height()
	}
	sort.Float64s(heights)
	tol := heights[len(heights)/2] * 0.3
	if tol < rc.config.MinAutoTolerance {
		tol = rc.config.MinAutoTolerance
	}
	return tol
}

// collectEdges gathers the cell edge coordinates along one axis.
func collectEdges(cells []model.CellGeometry, vertical bool) []float64 {
	edges := make([]float64, 0, len(cells)*2)
	for _, c := range cells {
		if vertical {
			edges = append(edges, c.BBox.Y0, c.BBox.Y1)
		} else {
			edges = append(edges, c.BBox.X0, c.BBox.X1)
		}
	}
	return edges
}

// clusterCoords groups coordinates within tolerance of each other and
// returns the sorted cluster means. Imprecise individual detections
// collapse into a single boundary line.
func clusterCoords(values []float64, tol float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var bounds []float64
	sum, count := sorted[0], 1.0
	mean := sorted[0]
	for _, v := range sorted[1:] {
		if v-mean <= tol {
			sum += v
			count++
			mean = sum / count
			continue
		}
		bounds = append(bounds, mean)
		sum, count, mean = v, 1, v
	}
	return append(bounds, mean)
}

// nearestIndex returns the index of the boundary closest to v.
func nearestIndex(bounds []float64, v float64) int {
	best, bestDist := 0, abs(bounds[0]-v)
	for i, b := range bounds[1:] {
		if d := abs(b - v); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// buildGrid maps each cell geometry onto the boundary grid. Returns false
// when the mapping is inconsistent (zero spans or double-claimed
// positions), in which case the caller falls back.
func (rc *Reconstructor) buildGrid(region *model.Region, cells []model.CellGeometry, xs, ys []float64) (*model.Table, bool) {
	rows, cols := len(ys)-1, len(xs)-1
	claimed := make([][]bool, rows)
	for r := range claimed {
		claimed[r] = make([]bool, cols)
	}

	type placed struct {
		r, c, rs, cs int
	}
	placements := make([]placed, 0, len(cells))
	for _, cell := range cells {
		r0 := nearestIndex(ys, cell.BBox.Y0)
		r1 := nearestIndex(ys, cell.BBox.Y1)
		c0 := nearestIndex(xs, cell.BBox.X0)
		c1 := nearestIndex(xs, cell.BBox.X1)
		rs, cs := r1-r0, c1-c0
		if rs < 1 || cs < 1 {
			return nil, false
		}
		// Detector span hints override derived spans when they fit.
		if cell.RowSpanHint > 0 && r0+cell.RowSpanHint <= rows {
			rs = cell.RowSpanHint
		}
		if cell.ColSpanHint > 0 && c0+cell.ColSpanHint <= cols {
			cs = cell.ColSpanHint
		}
		for r := r0; r < r0+rs; r++ {
			for c := c0; c < c0+cs; c++ {
				if claimed[r][c] {
					return nil, false
				}
				claimed[r][c] = true
			}
		}
		placements = append(placements, placed{r0, c0, rs, cs})
	}

	table := model.NewTable(rows, cols)
	for _, p := range placements {
		if err := table.SetSpan(p.r, p.c, p.rs, p.cs); err != nil {
			return nil, false
		}
	}

	// Give every origin cell (including gap-filling empty ones) the
	// bounding box of its span rectangle.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := table.At(r, c)
			if !cell.Origin {
				continue
			}
			cell.BBox = model.BBox{
				X0: xs[c],
				Y0: ys[r],
				X1: xs[c+cell.ColSpan],
				Y1: ys[r+cell.RowSpan],
			}
		}
	}

	table.BBox = region.BBox.Union(model.BBox{X0: xs[0], Y0: ys[0], X1: xs[cols], Y1: ys[rows]})
	table.Pages = []int{region.Page}
	table.ColumnBounds = xs
	return table, true
}

// fillTokens assigns the region's tokens to the origin cell with maximal
// containment of the token box (center containment breaks ties) and joins
// each cell's tokens in row-major reading order.
func (rc *Reconstructor) fillTokens(table *model.Table, tokens []model.Token) {
	assigned := make(map[*model.Cell][]model.Token)
	for _, tok := range tokens {
		var best *model.Cell
		bestScore := 0.0
		bestCenter := false
		for r := 0; r < table.RowCount(); r++ {
			for c := 0; c < table.ColCount(); c++ {
				cell := table.At(r, c)
				if !cell.Origin {
					continue
				}
				score := cell.BBox.ContainmentOf(tok.BBox)
				if score <= 0 {
					continue
				}
				center := cell.BBox.ContainsPoint(tok.BBox.Center())
				if score > bestScore || (score == bestScore && center && !bestCenter) {
					best, bestScore, bestCenter = cell, score, center
				}
			}
		}
		if best != nil {
			assigned[best] = append(assigned[best], tok)
		}
	}
	for cell, toks := range assigned {
		cell.Text = joinCellTokens(toks)
	}
}

// joinCellTokens renders a cell's tokens: words on the same visual line are
// space-separated, lines newline-separated.
func joinCellTokens(tokens []model.Token) string {
	lines := model.GroupTokensIntoLines(tokens)
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		words := make([]string, len(line))
		for i, tok := range line {
			words[i] = tok.Text
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, "\n")
}

// fallback builds the degraded-but-safe table: one 1x1 cell per detected
// geometry, one per row, ordered by position for determinism.
func (rc *Reconstructor) fallback(region *model.Region, cells []model.CellGeometry) *model.Table {
	sorted := make([]model.CellGeometry, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	table := model.NewTable(len(sorted), 1)
	for r, geom := range sorted {
		cell := table.At(r, 0)
		cell.BBox = geom.BBox
		var toks []model.Token
		for _, tok := range region.Tokens {
			if geom.BBox.ContainsPoint(tok.BBox.Center()) {
				toks = append(toks, tok)
			}
		}
		cell.Text = joinCellTokens(toks)
	}
	table.BBox = region.BBox
	table.Pages = []int{region.Page}
	table.Degraded = true
	return table
}
