package model

import (
	"math"
	"testing"
)

func TestNewBBoxNormalizes(t *testing.T) {
	b := NewBBox(100, 50, 0, 10)
	if b.X0 != 0 || b.Y0 != 10 || b.X1 != 100 || b.Y1 != 50 {
		t.Errorf("Expected normalized corners (0,10,100,50), got (%g,%g,%g,%g)", b.X0, b.Y0, b.X1, b.Y1)
	}
	if !b.IsValid() {
		t.Error("Normalized box should be valid")
	}
}

func TestBBoxDimensions(t *testing.T) {
	b := BBox{X0: 10, Y0: 20, X1: 40, Y1: 80}
	if b.Width() != 30 {
		t.Errorf("Expected width 30, got %g", b.Width())
	}
	if b.Height() != 60 {
		t.Errorf("Expected height 60, got %g", b.Height())
	}
	if b.Area() != 1800 {
		t.Errorf("Expected area 1800, got %g", b.Area())
	}
	c := b.Center()
	if c.X != 25 || c.Y != 50 {
		t.Errorf("Expected center (25,50), got (%g,%g)", c.X, c.Y)
	}
}

func TestBBoxIntersection(t *testing.T) {
	a := BBox{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := BBox{X0: 5, Y0: 5, X1: 15, Y1: 15}

	inter := a.Intersection(b)
	if inter.X0 != 5 || inter.Y0 != 5 || inter.X1 != 10 || inter.Y1 != 10 {
		t.Errorf("Unexpected intersection: %+v", inter)
	}

	disjoint := BBox{X0: 20, Y0: 20, X1: 30, Y1: 30}
	if !a.Intersection(disjoint).IsEmpty() {
		t.Error("Disjoint boxes should have empty intersection")
	}
	if a.Intersects(disjoint) {
		t.Error("Disjoint boxes should not intersect")
	}
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := BBox{X0: 20, Y0: 5, X1: 30, Y1: 15}

	u := a.Union(b)
	if u.X0 != 0 || u.Y0 != 0 || u.X1 != 30 || u.Y1 != 15 {
		t.Errorf("Unexpected union: %+v", u)
	}

	// Union with an empty box should return the non-empty one.
	if got := a.Union(BBox{}); got != a {
		t.Errorf("Union with empty box changed the box: %+v", got)
	}
	if got := (BBox{}).Union(b); got != b {
		t.Errorf("Union of empty box lost the other box: %+v", got)
	}
}

func TestBBoxIoU(t *testing.T) {
	a := BBox{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := BBox{X0: 5, Y0: 0, X1: 15, Y1: 10}

	// inter = 50, union = 150
	if got := a.IoU(b); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("Expected IoU 1/3, got %g", got)
	}
	if got := a.IoU(a); got != 1 {
		t.Errorf("Expected self-IoU 1, got %g", got)
	}
	if got := a.IoU(BBox{X0: 50, Y0: 50, X1: 60, Y1: 60}); got != 0 {
		t.Errorf("Expected IoU 0 for disjoint boxes, got %g", got)
	}
}

func TestBBoxOverlapRatio(t *testing.T) {
	big := BBox{X0: 0, Y0: 0, X1: 100, Y1: 100}
	small := BBox{X0: 10, Y0: 10, X1: 20, Y1: 20}

	// Small box fully inside the big one: ratio 1 despite tiny IoU.
	if got := big.OverlapRatio(small); got != 1 {
		t.Errorf("Expected overlap ratio 1 for contained box, got %g", got)
	}
	if got := big.IoU(small); got >= 0.5 {
		t.Errorf("Expected small IoU for contained box, got %g", got)
	}
}

func TestBBoxContainmentOf(t *testing.T) {
	a := BBox{X0: 0, Y0: 0, X1: 100, Y1: 100}

	half := BBox{X0: 50, Y0: 0, X1: 150, Y1: 100}
	if got := a.ContainmentOf(half); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected containment 0.5, got %g", got)
	}

	// Degenerate box falls back to center-point containment.
	point := BBox{X0: 30, Y0: 30, X1: 30, Y1: 30}
	if got := a.ContainmentOf(point); got != 1 {
		t.Errorf("Expected containment 1 for degenerate box inside, got %g", got)
	}
	outside := BBox{X0: 300, Y0: 300, X1: 300, Y1: 300}
	if got := a.ContainmentOf(outside); got != 0 {
		t.Errorf("Expected containment 0 for degenerate box outside, got %g", got)
	}
}

func TestBBoxProjectionOverlap(t *testing.T) {
	a := BBox{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := BBox{X0: 5, Y0: 20, X1: 15, Y1: 30}

	if got := a.HorizontalOverlap(b); got != 5 {
		t.Errorf("Expected horizontal overlap 5, got %g", got)
	}
	if got := a.VerticalOverlap(b); got != 0 {
		t.Errorf("Expected vertical overlap 0, got %g", got)
	}
}
