// Package regions resolves raw, possibly overlapping layout-region
// detections into a non-overlapping partition of a page.
//
// Detections from independently-run models are treated as a flat candidate
// set and reduced with confidence-ordered non-max suppression; there is no
// parent/child region graph. After suppression, each OCR token is assigned
// to the region that best contains it, and tokens no region claims are
// wrapped into synthetic text regions so no content is lost.
package regions
