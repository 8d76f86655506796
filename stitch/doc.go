// Package stitch assembles per-page reading sequences into a single
// document stream.
//
// It removes header/footer boilerplate that recurs across pages (tolerant
// of varying page-number tokens) and merges tables split by a page break
// into one logical table attributed to every contributing page. Both
// passes need full-document visibility, so stitching runs after all pages
// have been processed.
package stitch
