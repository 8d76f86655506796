package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds for recoverable and input-validation failures. No kind is
// fatal to the whole document: a failure confined to one page or one table
// degrades that unit only.
var (
	// ErrInvalidInput reports input violating the structural invariants of
	// the external interface (e.g. a bbox with X1 < X0). The offending page
	// is skipped with a gap marker.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyPageInput reports a page with no tokens and no detections.
	// Recovered by emitting an empty page sequence.
	ErrEmptyPageInput = errors.New("empty page input")

	// ErrDegenerateTableGeometry reports cell geometry that defeats
	// boundary clustering. Recovered via the one-cell-per-geometry
	// fallback; the table is flagged degraded.
	ErrDegenerateTableGeometry = errors.New("degenerate table geometry")

	// ErrPageCancelled reports a page task cancelled before completion.
	// Recovered by marking the page missing with a gap marker.
	ErrPageCancelled = errors.New("page processing cancelled")

	// ErrInconsistentContinuation reports table-continuation candidates
	// whose column structure does not match across a page break. Recovered
	// by keeping the tables separate.
	ErrInconsistentContinuation = errors.New("inconsistent table continuation")
)

// Warning records a recoverable degradation encountered while processing.
// Warnings are returned alongside results rather than failing the document.
type Warning struct {
	Page    int // page index the warning applies to, -1 for cross-page
	Message string
	Err     error // the underlying error kind, if any
}

func (w Warning) String() string {
	var sb strings.Builder
	if w.Page >= 0 {
		fmt.Fprintf(&sb, "page %d: ", w.Page)
	}
	sb.WriteString(w.Message)
	if w.Err != nil {
		fmt.Fprintf(&sb, ": %v", w.Err)
	}
	return sb.String()
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
