package model

import (
	"testing"
)

func tok(text string, x0, y0, x1, y1 float64) Token {
	return Token{Text: text, BBox: BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}, Confidence: 0.9}
}

func TestGroupTokensIntoLines(t *testing.T) {
	tokens := []Token{
		tok("world", 60, 10, 110, 22),
		tok("hello", 0, 11, 50, 23),
		tok("below", 0, 40, 50, 52),
	}

	lines := GroupTokensIntoLines(tokens)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if len(lines[0]) != 2 {
		t.Fatalf("Expected 2 tokens on first line, got %d", len(lines[0]))
	}
	if lines[0][0].Text != "hello" || lines[0][1].Text != "world" {
		t.Errorf("Expected left-to-right order on the line, got %q %q", lines[0][0].Text, lines[0][1].Text)
	}
	if lines[1][0].Text != "below" {
		t.Errorf("Expected %q on second line, got %q", "below", lines[1][0].Text)
	}
}

func TestRegionText(t *testing.T) {
	r := Region{
		Tokens: []Token{
			tok("hello", 0, 10, 50, 22),
			tok("world", 60, 10, 110, 22),
			tok("below", 0, 40, 50, 52),
		},
	}
	want := "hello world\nbelow"
	if got := r.Text(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSortTokensNaturally(t *testing.T) {
	tokens := []Token{
		tok("c", 0, 40, 20, 52),
		tok("b", 60, 10, 80, 22),
		tok("a", 0, 11, 20, 23),
	}
	out := SortTokensNaturally(tokens)
	if len(out) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(out))
	}
	if out[0].Text != "a" || out[1].Text != "b" || out[2].Text != "c" {
		t.Errorf("Unexpected order: %q %q %q", out[0].Text, out[1].Text, out[2].Text)
	}
}

func TestMedianTokenHeight(t *testing.T) {
	tokens := []Token{
		tok("a", 0, 0, 10, 10),
		tok("b", 0, 0, 10, 12),
		tok("c", 0, 0, 10, 40),
	}
	if got := MedianTokenHeight(tokens); got != 12 {
		t.Errorf("Expected median height 12, got %g", got)
	}
	if got := MedianTokenHeight(nil); got != 0 {
		t.Errorf("Expected 0 for no tokens, got %g", got)
	}
}

func TestRegionLabelString(t *testing.T) {
	if LabelTable.String() != "table" {
		t.Errorf("Expected %q, got %q", "table", LabelTable.String())
	}
	if RegionLabel(99).String() != "unknown" {
		t.Errorf("Expected %q for out-of-range label, got %q", "unknown", RegionLabel(99).String())
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Page: 2, Message: "table rebuilt with one cell per detection", Err: ErrDegenerateTableGeometry}
	want := "page 2: table rebuilt with one cell per detection: degenerate table geometry"
	if got := w.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	crossPage := Warning{Page: -1, Message: "no pages"}
	if got := crossPage.String(); got != "no pages" {
		t.Errorf("Expected %q, got %q", "no pages", got)
	}
}
