// Package layout infers the reading order of a page's resolved regions.
//
// The core is a recursive X-Y cut: the region set is split by horizontal
// separating lines that no box straddles, then by vertical ones, recursing
// into each group. This resolves multi-column layouts (left column before
// right) without any model of what the content means. Clusters that no
// line can separate are ordered by position as a stable fallback.
package layout
