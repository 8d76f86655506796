package mosaic

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/docmosaic/mosaic/layout"
	"github.com/docmosaic/mosaic/model"
	"github.com/docmosaic/mosaic/regions"
	"github.com/docmosaic/mosaic/stitch"
	"github.com/docmosaic/mosaic/tables"
)

// PageInput bundles one page's detections as produced by the external
// collaborators: OCR tokens, layout-region detections, and raw table-cell
// geometry. Cell geometry for the whole page is accepted in one slice and
// bound to table regions by containment.
type PageInput struct {
	Page   int
	Width  float64
	Height float64

	Tokens     []model.Token
	Detections []model.RegionDetection
	Cells      []model.CellGeometry
}

// Pipeline turns per-page geometric detections into a single linear,
// logically-ordered document. Pages are processed independently in
// parallel; the cross-page stitch phase runs once all per-page results are
// available.
//
// A Pipeline is safe for concurrent use; each Process call owns its own
// region and table graph.
type Pipeline struct {
	config        Config
	logger        *slog.Logger
	resolver      *regions.Resolver
	reconstructor *tables.Reconstructor
	assembler     *layout.Assembler
	stitcher      *stitch.Stitcher
}

// New creates a pipeline with default configuration.
func New() *Pipeline {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a pipeline with custom configuration.
func NewWithConfig(config Config) *Pipeline {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := regions.NewWithConfig(config.Resolver)
	resolver.SetLogger(logger)
	reconstructor := tables.NewWithConfig(config.Tables)
	reconstructor.SetLogger(logger)
	stitcher := stitch.NewWithConfig(config.Stitch)
	stitcher.SetLogger(logger)
	return &Pipeline{
		config:        config,
		logger:        logger,
		resolver:      resolver,
		reconstructor: reconstructor,
		assembler:     layout.NewWithConfig(config.Layout),
		stitcher:      stitcher,
	}
}

type pageResult struct {
	seq      model.PageSequence
	warnings []model.Warning
	invalid  bool
}

// Process runs the full pipeline over the given pages and returns the
// stitched document together with any recoverable-degradation warnings.
//
// No per-page failure is fatal: a page with malformed input or a page
// cancelled by ctx contributes a gap marker and a warning, and the rest of
// the document is emitted normally. The returned error is non-nil only
// when every page failed input validation.
func (p *Pipeline) Process(ctx context.Context, pages []PageInput) (*model.Document, []model.Warning, error) {
	results := make([]pageResult, len(pages))

	workers := p.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pages {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = gapResult(pages[i], model.ErrPageCancelled)
				return nil
			}
			if err := validatePage(&pages[i]); err != nil {
				p.logger.Warn("skipping page with malformed input", "page", pages[i].Page, "err", err)
				res := gapResult(pages[i], err)
				res.invalid = true
				results[i] = res
				return nil
			}
			results[i] = p.processPage(gctx, &pages[i])
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes them.
	_ = g.Wait()

	var warnings []model.Warning
	sequences := make([]model.PageSequence, len(results))
	invalid := 0
	for i, res := range results {
		sequences[i] = res.seq
		warnings = append(warnings, res.warnings...)
		if res.invalid {
			invalid++
		}
	}
	sort.SliceStable(sequences, func(i, j int) bool {
		return sequences[i].Page < sequences[j].Page
	})

	doc, stitchWarnings := p.stitcher.Stitch(sequences)
	warnings = append(warnings, stitchWarnings...)

	if len(pages) > 0 && invalid == len(pages) {
		return doc, warnings, fmt.Errorf("all %d pages rejected: %w", len(pages), model.ErrInvalidInput)
	}
	return doc, warnings, nil
}

// processPage runs the per-page phase: region resolution, table
// reconstruction, and reading-order assembly. Cancellation is observed
// between stages so a long page gives up its remaining work.
func (p *Pipeline) processPage(ctx context.Context, in *PageInput) pageResult {
	var res pageResult

	if len(in.Tokens) == 0 && len(in.Detections) == 0 {
		p.logger.Debug("page has no tokens or detections",
			"page", in.Page, "err", model.ErrEmptyPageInput)
		res.seq = model.PageSequence{Page: in.Page, Width: in.Width, Height: in.Height}
		return res
	}

	regs := p.resolver.Resolve(in.Detections, in.Tokens, in.Page)
	if ctx.Err() != nil {
		return gapResult(*in, model.ErrPageCancelled)
	}

	for i := range regs {
		if regs[i].Label != model.LabelTable {
			continue
		}
		cells := cellsWithin(in.Cells, regs[i].BBox)
		table := p.reconstructor.Reconstruct(&regs[i], cells)
		if table == nil {
			continue
		}
		regs[i].Table = table
		if table.Degraded {
			res.warnings = append(res.warnings, model.Warning{
				Page:    in.Page,
				Message: "table rebuilt with one cell per detection",
				Err:     model.ErrDegenerateTableGeometry,
			})
		}
	}

	if ctx.Err() != nil {
		return gapResult(*in, model.ErrPageCancelled)
	}
	res.seq = p.assembler.Order(regs, in.Page, in.Width, in.Height)
	return res
}

// cellsWithin selects the cell geometry whose center lies inside the
// region box.
func cellsWithin(cells []model.CellGeometry, bbox model.BBox) []model.CellGeometry {
	var out []model.CellGeometry
	for _, c := range cells {
		if bbox.ContainsPoint(c.BBox.Center()) {
			out = append(out, c)
		}
	}
	return out
}

// gapResult builds the page sequence for a page that could not be
// processed: a single gap marker plus a warning.
func gapResult(in PageInput, err error) pageResult {
	return pageResult{
		seq: model.PageSequence{
			Page:   in.Page,
			Width:  in.Width,
			Height: in.Height,
			Blocks: []model.Block{&model.PageGap{Page: in.Page, Err: err}},
		},
		warnings: []model.Warning{{
			Page:    in.Page,
			Message: "page skipped",
			Err:     err,
		}},
	}
}

// validatePage checks the structural invariants of the external interface.
func validatePage(in *PageInput) error {
	if in.Width < 0 || in.Height < 0 {
		return fmt.Errorf("%w: negative page size %gx%g", model.ErrInvalidInput, in.Width, in.Height)
	}
	for _, tok := range in.Tokens {
		if !tok.BBox.IsValid() {
			return fmt.Errorf("%w: token %q has inverted bbox", model.ErrInvalidInput, tok.Text)
		}
	}
	for _, det := range in.Detections {
		if !det.BBox.IsValid() {
			return fmt.Errorf("%w: %s detection has inverted bbox", model.ErrInvalidInput, det.Label)
		}
	}
	for _, cell := range in.Cells {
		if !cell.BBox.IsValid() {
			return fmt.Errorf("%w: cell geometry has inverted bbox", model.ErrInvalidInput)
		}
	}
	return nil
}
