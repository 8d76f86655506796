// Package tables reconstructs logical row/column grids from raw table-cell
// geometry detected inside a table region.
//
// Cell boxes are projected onto each axis and their edge coordinates
// clustered within a tolerance to recover the boundary lines of the grid,
// which tolerates imprecise individual detections. Each detected cell then
// maps to the contiguous range of rows and columns it spans. Geometry that
// defeats clustering degrades to a one-cell-per-detection table rather
// than failing.
package tables
