// Package mosaic reconstructs a single, logically-ordered document from
// noisy per-page geometric detections: OCR tokens, layout-region boxes,
// and table-cell geometry produced by external perception models.
//
// Per page, overlapping region detections are reduced to a non-overlapping
// partition, table regions are rebuilt into logical row/column grids, and
// regions are ordered with a recursive column-cut heuristic. Across pages,
// repeating header/footer boilerplate is stripped and tables that continue
// over a page break are merged.
//
// Basic usage:
//
//	doc, warnings, err := mosaic.New().Process(ctx, pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("warnings:", model.FormatWarnings(warnings))
//	}
//
// With options:
//
//	cfg := mosaic.DefaultConfig()
//	cfg.Resolver.OverlapThreshold = 0.6
//	cfg.Stitch.MinOccurrenceRatio = 0.7
//	doc, _, err := mosaic.NewWithConfig(cfg).Process(ctx, pages)
//
// The lower-level regions, tables, layout, and stitch packages are also
// available for running individual stages.
package mosaic

import (
	"context"

	"github.com/docmosaic/mosaic/model"
)

// Process runs the default pipeline over the given pages. It is a
// convenience wrapper around New().Process.
func Process(ctx context.Context, pages []PageInput) (*model.Document, []model.Warning, error) {
	return New().Process(ctx, pages)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument wraps a Process call, panicking on error and discarding
// warnings.
func MustDocument(doc *model.Document, _ []model.Warning, err error) *model.Document {
	if err != nil {
		panic(err)
	}
	return doc
}
