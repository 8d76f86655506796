package model

import "strings"

// BlockKind discriminates the block types a document stream can hold.
type BlockKind int

const (
	BlockKindText BlockKind = iota
	BlockKindTable
	BlockKindGap
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindText:
		return "text"
	case BlockKindTable:
		return "table"
	default:
		return "gap"
	}
}

// Block is one entry in a page sequence or document stream.
type Block interface {
	Kind() BlockKind
	BoundingBox() BBox
	// PageIndices lists the originating pages; a single value for
	// everything except tables merged across page breaks.
	PageIndices() []int
}

// TextBlock is a non-table region flattened into ordered text.
type TextBlock struct {
	Text  string
	Label RegionLabel
	BBox  BBox
	Page  int
}

func (b *TextBlock) Kind() BlockKind    { return BlockKindText }
func (b *TextBlock) BoundingBox() BBox  { return b.BBox }
func (b *TextBlock) PageIndices() []int { return []int{b.Page} }

// Table blocks carry the reconstructed grid directly.
func (t *Table) Kind() BlockKind   { return BlockKindTable }
func (t *Table) BoundingBox() BBox { return t.BBox }
func (t *Table) PageIndices() []int {
	pages := make([]int, len(t.Pages))
	copy(pages, t.Pages)
	return pages
}

// PageGap marks a page whose processing failed or was cancelled. The rest
// of the document is unaffected; the gap records why the page is missing.
type PageGap struct {
	Page int
	Err  error
}

func (g *PageGap) Kind() BlockKind    { return BlockKindGap }
func (g *PageGap) BoundingBox() BBox  { return BBox{} }
func (g *PageGap) PageIndices() []int { return []int{g.Page} }

// PageSequence is the final reading-ordered block list for one page.
type PageSequence struct {
	Page   int
	Width  float64
	Height float64
	Blocks []Block
}

// Text concatenates the text of all text and table blocks in order.
func (s *PageSequence) Text() string {
	var parts []string
	for _, blk := range s.Blocks {
		switch b := blk.(type) {
		case *TextBlock:
			parts = append(parts, b.Text)
		case *Table:
			parts = append(parts, b.GetText())
		}
	}
	return strings.Join(parts, "\n")
}

// Tables returns the table blocks on the page in order.
func (s *PageSequence) Tables() []*Table {
	var tables []*Table
	for _, blk := range s.Blocks {
		if t, ok := blk.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Document is the linear, logically-ordered block stream spanning all
// pages, with boilerplate removed and cross-page tables merged.
type Document struct {
	Blocks []Block
}

// Text concatenates the text of all text and table blocks in order.
func (d *Document) Text() string {
	var parts []string
	for _, blk := range d.Blocks {
		switch b := blk.(type) {
		case *TextBlock:
			parts = append(parts, b.Text)
		case *Table:
			parts = append(parts, b.GetText())
		}
	}
	return strings.Join(parts, "\n")
}

// Tables returns all table blocks in document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, blk := range d.Blocks {
		if t, ok := blk.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Gaps returns the page-gap markers in document order.
func (d *Document) Gaps() []*PageGap {
	var gaps []*PageGap
	for _, blk := range d.Blocks {
		if g, ok := blk.(*PageGap); ok {
			gaps = append(gaps, g)
		}
	}
	return gaps
}
