// Package model defines the geometric primitives and document structures
// shared by the mosaic pipeline: bounding boxes, OCR tokens, layout-region
// detections, resolved regions, reconstructed tables, per-page reading
// sequences, and the final document stream.
//
// Coordinate convention: pages are rasters, so coordinates are y-down with
// the origin at the top-left corner. For a BBox, (X0, Y0) is the top-left
// and (X1, Y1) the bottom-right corner.
//
// Ownership: Tokens, RegionDetections, and CellGeometry values are produced
// by external collaborators (OCR, layout detection, cell detection) and are
// never mutated by the pipeline. Regions and Tables are created by the
// pipeline and live until the Document is emitted.
package model
