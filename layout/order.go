package layout

import (
	"sort"

	"github.com/docmosaic/mosaic/model"
)

// Config holds configuration for reading-order assembly.
type Config struct {
	// MinCutGap is the minimum whitespace a separating line needs between
	// the two groups it splits. Zero allows cutting between boxes that
	// merely touch. Default: 0
	MinCutGap float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MinCutGap: 0}
}

// Assembler orders a page's resolved regions into a linear reading
// sequence with a recursive geometric cut (X-Y cut): horizontal separating
// lines first (upper content before lower), then vertical ones (left
// column before right), recursing into each group. An irreducible
// overlapping cluster falls back to a stable top-then-left sort.
//
// Table and figure regions are atomic leaves; their internal content order
// is fixed by table reconstruction and never reordered here. Header
// regions are pinned to the start of the sequence and footer regions to
// the end before the recursive ordering of the remainder.
type Assembler struct {
	config Config
}

// New creates an assembler with default configuration.
func New() *Assembler {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an assembler with custom configuration.
func NewWithConfig(config Config) *Assembler {
	return &Assembler{config: config}
}

// Order produces the final per-page reading sequence. It is a pure
// function of its input: re-running on the same regions yields the same
// order.
func (a *Assembler) Order(regs []model.Region, page int, pageWidth, pageHeight float64) model.PageSequence {
	var headers, footers, body []model.Region
	for _, reg := range regs {
		switch reg.Label {
		case model.LabelHeader:
			headers = append(headers, reg)
		case model.LabelFooter:
			footers = append(footers, reg)
		default:
			body = append(body, reg)
		}
	}

	sortTopLeft(headers)
	sortTopLeft(footers)
	ordered := a.xyCut(body)

	seq := model.PageSequence{Page: page, Width: pageWidth, Height: pageHeight}
	for _, group := range [][]model.Region{headers, ordered, footers} {
		for i := range group {
			seq.Blocks = append(seq.Blocks, regionBlock(&group[i]))
		}
	}
	return seq
}

// xyCut recursively orders regions by alternating separating lines.
func (a *Assembler) xyCut(regs []model.Region) []model.Region {
	if len(regs) <= 1 {
		return regs
	}

	if groups := a.split(regs, true); len(groups) > 1 {
		return a.concat(groups)
	}
	if groups := a.split(regs, false); len(groups) > 1 {
		return a.concat(groups)
	}

	// Irreducible overlapping cluster: stable fallback order.
	out := make([]model.Region, len(regs))
	copy(out, regs)
	sortTopLeft(out)
	return out
}

func (a *Assembler) concat(groups [][]model.Region) []model.Region {
	var out []model.Region
	for _, g := range groups {
		out = append(out, a.xyCut(g)...)
	}
	return out
}

// split partitions regions along one axis wherever a separating line
// crosses no box. horizontal=true cuts with horizontal lines (splitting
// into upper/lower groups); false cuts with vertical lines (left/right).
// Returns a single group when no cut exists.
func (a *Assembler) split(regs []model.Region, horizontal bool) [][]model.Region {
	lo := func(b model.BBox) float64 {
		if horizontal {
			return b.Y0
		}
		return b.X0
	}
	hi := func(b model.BBox) float64 {
		if horizontal {
			return b.Y1
		}
		return b.X1
	}

	sorted := make([]model.Region, len(regs))
	copy(sorted, regs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lo(sorted[i].BBox) < lo(sorted[j].BBox)
	})

	var groups [][]model.Region
	group := []model.Region{sorted[0]}
	reach := hi(sorted[0].BBox)
	for _, reg := range sorted[1:] {
		if lo(reg.BBox)-reach >= a.config.MinCutGap {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, reg)
		if hi(reg.BBox) > reach {
			reach = hi(reg.BBox)
		}
	}
	return append(groups, group)
}

// sortTopLeft stably orders regions by top edge, then left edge.
func sortTopLeft(regs []model.Region) {
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].BBox.Y0 != regs[j].BBox.Y0 {
			return regs[i].BBox.Y0 < regs[j].BBox.Y0
		}
		return regs[i].BBox.X0 < regs[j].BBox.X0
	})
}

// regionBlock converts a resolved region into its document block form.
func regionBlock(reg *model.Region) model.Block {
	if reg.Table != nil {
		return reg.Table
	}
	return &model.TextBlock{
		Text:  reg.Text(),
		Label: reg.Label,
		BBox:  reg.BBox,
		Page:  reg.Page,
	}
}
