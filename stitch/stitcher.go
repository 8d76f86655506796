package stitch

import (
	"log/slog"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/docmosaic/mosaic/model"
)

// Config holds configuration for cross-page document stitching.
type Config struct {
	// MinOccurrenceRatio is the minimum fraction of pages a header/footer
	// text must recur on to be dropped as boilerplate. Default: 0.5
	MinOccurrenceRatio float64

	// MinPages is the minimum number of pages required before boilerplate
	// detection runs at all. Default: 2
	MinPages int

	// MarginFraction is the fraction of the page height counting as the
	// top/bottom margin when looking for table continuations across a page
	// break. Default: 0.05
	MarginFraction float64

	// ColumnBoundTolerance is the maximum difference between column
	// boundary positions for two tables to be considered the same grid.
	// Default: 5.0
	ColumnBoundTolerance float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MinOccurrenceRatio:   0.5,
		MinPages:             2,
		MarginFraction:       0.05,
		ColumnBoundTolerance: 5.0,
	}
}

// Stitcher concatenates per-page reading sequences into one document
// stream, dropping repeating header/footer boilerplate and merging tables
// that continue across page breaks.
//
// Boilerplate status is only decidable with full-document visibility, so
// stitching runs strictly after every page has been processed; it is a
// single sequential pass. A Stitcher holds no per-call state and is safe
// for concurrent use.
type Stitcher struct {
	config Config
	logger *slog.Logger
}

// New creates a stitcher with default configuration.
func New() *Stitcher {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a stitcher with custom configuration.
func NewWithConfig(config Config) *Stitcher {
	return &Stitcher{
		config: config,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for stitch diagnostics.
func (s *Stitcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Stitch assembles the final document from per-page sequences, which must
// be ordered by page. Recoverable anomalies (a continuation candidate with
// mismatched columns) are reported as warnings, never as failures.
func (s *Stitcher) Stitch(pages []model.PageSequence) (*model.Document, []model.Warning) {
	removed := s.findBoilerplate(pages)

	// Working copy of each page's surviving blocks.
	surviving := make([][]model.Block, len(pages))
	for i := range pages {
		for j, blk := range pages[i].Blocks {
			if removed[blockID{i, j}] {
				continue
			}
			surviving[i] = append(surviving[i], blk)
		}
	}

	warnings, consumed := s.mergeContinuations(pages, surviving)

	doc := &model.Document{}
	for i := range surviving {
		for _, blk := range surviving[i] {
			if t, ok := blk.(*model.Table); ok && consumed[t] {
				continue
			}
			doc.Blocks = append(doc.Blocks, blk)
		}
	}
	return doc, warnings
}

type blockID struct{ page, idx int }

// Tokens that are plausibly page numbers after normalization: arabic
// numerals or short roman numerals. "page n [of m]" groups are matched
// token-wise in templateKey.
var (
	numberRe = regexp.MustCompile(`^\d{1,4}$`)
	romanRe  = regexp.MustCompile(`^[ivxlcdm]{1,8}$`)
)

// normalize produces the comparison key for boilerplate matching:
// NFKC-normalized, case-folded, whitespace-collapsed. A fresh Caser per
// call: a cases.Caser is a stateful transformer and cannot be shared.
func normalize(text string) string {
	folded := cases.Fold().String(norm.NFKC.String(text))
	return strings.Join(strings.Fields(folded), " ")
}

// templateKey strips a page-number token from either end of the
// normalized text so "report - 3" and "report - 4" compare equal. A
// trailing "page n" or "page n of m" group is stripped as a unit.
func templateKey(normalized string) string {
	fields := strings.Fields(normalized)

	// Trailing "page n [of m]".
	if n := len(fields); n >= 2 && fields[n-2] == "page" && numberRe.MatchString(fields[n-1]) {
		fields = fields[:n-2]
	} else if n >= 4 && fields[n-4] == "page" && numberRe.MatchString(fields[n-3]) &&
		fields[n-2] == "of" && numberRe.MatchString(fields[n-1]) {
		fields = fields[:n-4]
	}

	if n := len(fields); n > 0 && isPageNumberToken(fields[n-1]) {
		fields = fields[:n-1]
	}
	if len(fields) > 0 && isPageNumberToken(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func isPageNumberToken(tok string) bool {
	return numberRe.MatchString(tok) || romanRe.MatchString(tok)
}

// findBoilerplate compares normalized header/footer text across pages and
// marks every occurrence of a template recurring on at least
// MinOccurrenceRatio of the pages for removal.
func (s *Stitcher) findBoilerplate(pages []model.PageSequence) map[blockID]bool {
	removed := make(map[blockID]bool)
	if len(pages) < s.config.MinPages {
		return removed
	}

	type occurrence struct {
		id    blockID
		label model.RegionLabel
	}
	occurrences := make(map[string][]occurrence)
	pagesSeen := make(map[string]map[int]bool)

	for i := range pages {
		for j, blk := range pages[i].Blocks {
			tb, ok := blk.(*model.TextBlock)
			if !ok || (tb.Label != model.LabelHeader && tb.Label != model.LabelFooter) {
				continue
			}
			key := tb.Label.String() + "\x00" + templateKey(normalize(tb.Text))
			occurrences[key] = append(occurrences[key], occurrence{blockID{i, j}, tb.Label})
			if pagesSeen[key] == nil {
				pagesSeen[key] = make(map[int]bool)
			}
			pagesSeen[key][i] = true
		}
	}

	needed := s.config.MinOccurrenceRatio * float64(len(pages))
	for key, seen := range pagesSeen {
		if float64(len(seen)) < needed || len(seen) < 2 {
			continue
		}
		s.logger.Debug("dropping boilerplate", "pages", len(seen), "occurrences", len(occurrences[key]))
		for _, occ := range occurrences[key] {
			removed[occ.id] = true
		}
	}
	return removed
}

// mergeContinuations merges a table ending in the bottom margin of one
// page with a table starting in the top margin of the next, when their
// column structures match. Chains across more than two pages are followed
// by re-targeting the merge at the chain root. The returned set holds the
// continuation tables absorbed into an earlier table, for the assembly
// pass to skip.
func (s *Stitcher) mergeContinuations(pages []model.PageSequence, surviving [][]model.Block) ([]model.Warning, map[*model.Table]bool) {
	var warnings []model.Warning
	consumed := make(map[*model.Table]bool)
	root := make(map[*model.Table]*model.Table)

	for i := 0; i+1 < len(pages); i++ {
		trailing := s.trailingTable(pages[i], surviving[i])
		leading := s.leadingTable(pages[i+1], surviving[i+1])
		if trailing == nil || leading == nil {
			continue
		}
		target := trailing
		if r, ok := root[trailing]; ok {
			target = r
		}
		if !s.gridsMatch(target, leading) {
			warnings = append(warnings, model.Warning{
				Page:    pages[i+1].Page,
				Message: "table at page break left unmerged",
				Err:     model.ErrInconsistentContinuation,
			})
			continue
		}
		if err := target.AppendRows(leading); err != nil {
			warnings = append(warnings, model.Warning{
				Page:    pages[i+1].Page,
				Message: "table at page break left unmerged",
				Err:     model.ErrInconsistentContinuation,
			})
			continue
		}
		s.logger.Debug("merged continued table",
			"from", pages[i].Page, "to", pages[i+1].Page, "rows", target.RowCount())
		consumed[leading] = true
		root[leading] = target
	}
	return warnings, consumed
}

// trailingTable returns the page's last content block if it is a table
// ending inside the bottom margin. Footer text below the table does not
// disqualify it.
func (s *Stitcher) trailingTable(page model.PageSequence, blocks []model.Block) *model.Table {
	if page.Height <= 0 {
		return nil
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		switch blk := blocks[i].(type) {
		case *model.TextBlock:
			if blk.Label == model.LabelFooter {
				continue
			}
			return nil
		case *model.Table:
			if blk.BBox.Y1 >= page.Height*(1-s.config.MarginFraction) {
				return blk
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// leadingTable returns the page's first content block if it is a table
// starting inside the top margin.
func (s *Stitcher) leadingTable(page model.PageSequence, blocks []model.Block) *model.Table {
	if page.Height <= 0 {
		return nil
	}
	for _, b := range blocks {
		switch blk := b.(type) {
		case *model.TextBlock:
			if blk.Label == model.LabelHeader {
				continue
			}
			return nil
		case *model.Table:
			if blk.BBox.Y0 <= page.Height*s.config.MarginFraction {
				return blk
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// gridsMatch reports whether two tables have the same column count and,
// when both carry clustered column boundaries, the same boundary
// positions within tolerance.
func (s *Stitcher) gridsMatch(a, b *model.Table) bool {
	if a.ColCount() != b.ColCount() || a.ColCount() == 0 {
		return false
	}
	if len(a.ColumnBounds) == 0 || len(b.ColumnBounds) == 0 {
		return true
	}
	if len(a.ColumnBounds) != len(b.ColumnBounds) {
		return false
	}
	for i := range a.ColumnBounds {
		if math.Abs(a.ColumnBounds[i]-b.ColumnBounds[i]) > s.config.ColumnBoundTolerance {
			return false
		}
	}
	return true
}
