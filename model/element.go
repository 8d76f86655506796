package model

import (
	"sort"
	"strings"
)

// RegionLabel classifies a detected layout region.
type RegionLabel int

const (
	LabelUnknown RegionLabel = iota
	LabelTitle
	LabelText
	LabelTable
	LabelFigure
	LabelHeader
	LabelFooter
)

func (l RegionLabel) String() string {
	switch l {
	case LabelTitle:
		return "title"
	case LabelText:
		return "text"
	case LabelTable:
		return "table"
	case LabelFigure:
		return "figure"
	case LabelHeader:
		return "header"
	case LabelFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Token is a single OCR word with its position and recognition confidence.
// Tokens are produced by the external OCR collaborator and are read-only
// inputs to the pipeline.
type Token struct {
	Text       string
	BBox       BBox
	Confidence float64 // 0 to 1
	Page       int     // 0-indexed page the token belongs to
}

// RegionDetection is a raw layout-region detection from the external layout
// model. Detections are unmerged and may overlap each other.
type RegionDetection struct {
	BBox       BBox
	Label      RegionLabel
	Confidence float64
	Page       int
}

// CellGeometry is a raw table-cell detection from the external cell
// detection model. It carries no row/column indices; those are derived by
// boundary clustering. Span hints are optional (0 means no hint).
type CellGeometry struct {
	BBox        BBox
	RowSpanHint int
	ColSpanHint int
}

// Region is a resolved, non-overlapping layout region owning the tokens it
// geometrically contains. Table regions additionally carry the
// reconstructed grid once table reconstruction has run.
type Region struct {
	BBox   BBox
	Label  RegionLabel
	Page   int
	Tokens []Token // in reading-fragment order within the region

	// Table is non-nil only for table regions after reconstruction.
	Table *Table

	// Synthetic marks regions created for tokens no detection claimed.
	Synthetic bool
}

// Text joins the region's tokens into a single string: tokens on the same
// visual line are separated by spaces, lines by newlines.
func (r *Region) Text() string {
	lines := GroupTokensIntoLines(r.Tokens)
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

// GroupTokensIntoLines groups tokens into visual lines by vertical center
// proximity and sorts each line left to right. Lines are ordered top to
// bottom. The input slice is not modified.
func GroupTokensIntoLines(tokens []Token) [][]Token {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
	})

	var lines [][]Token
	for _, tok := range sorted {
		placed := false
		if len(lines) > 0 {
			last := lines[len(lines)-1]
			// Same line if vertical projections overlap by at least half
			// the shorter token height.
			ref := last[len(last)-1]
			overlap := tok.BBox.VerticalOverlap(ref.BBox)
			minH := tok.BBox.Height()
			if ref.BBox.Height() < minH {
				minH = ref.BBox.Height()
			}
			if minH <= 0 || overlap >= minH*0.5 {
				if minH > 0 {
					lines[len(lines)-1] = append(last, tok)
					placed = true
				}
			}
		}
		if !placed {
			lines = append(lines, []Token{tok})
		}
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.X0 < line[j].BBox.X0
		})
	}
	return lines
}

// SortTokensNaturally returns tokens in top-to-bottom, left-to-right order,
// with tokens on the same visual line kept together.
func SortTokensNaturally(tokens []Token) []Token {
	lines := GroupTokensIntoLines(tokens)
	out := make([]Token, 0, len(tokens))
	for _, line := range lines {
		out = append(out, line...)
	}
	return out
}

// MedianTokenHeight returns the median bounding-box height of the tokens,
// or 0 if there are none. Used to scale gap and tolerance heuristics.
func MedianTokenHeight(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	heights := make([]float64, len(tokens))
	for i, tok := range tokens {
		heights[i] = tok.BBox.Height()
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}
