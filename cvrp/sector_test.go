package cvrp

import "testing"

// TestCircleSector_ExtendAndEnclose covers growth toward the nearer side
// and modular enclosure.
func TestCircleSector_ExtendAndEnclose(t *testing.T) {
	var s CircleSector
	s.Extend(1000)
	if s.Start != 1000 || s.End != 1000 {
		t.Fatalf("initial extend: got [%d,%d], want [1000,1000]", s.Start, s.End)
	}

	s.Extend(2000)
	if s.Start != 1000 || s.End != 2000 {
		t.Fatalf("forward extend: got [%d,%d], want [1000,2000]", s.Start, s.End)
	}
	if !s.Encloses(1500) {
		t.Error("1500 should be enclosed by [1000,2000]")
	}
	if s.Encloses(3000) {
		t.Error("3000 should not be enclosed by [1000,2000]")
	}

	// Closer to the start going backwards: the start moves.
	s.Extend(500)
	if s.Start != 500 || s.End != 2000 {
		t.Fatalf("backward extend: got [%d,%d], want [500,2000]", s.Start, s.End)
	}
}

// TestCircleSector_WrapAround exercises sectors spanning the 0 angle.
func TestCircleSector_WrapAround(t *testing.T) {
	s := CircleSector{Start: 65000, End: 500}
	if !s.Encloses(65500) {
		t.Error("65500 should be enclosed by the wrapping sector")
	}
	if !s.Encloses(100) {
		t.Error("100 should be enclosed by the wrapping sector")
	}
	if s.Encloses(30000) {
		t.Error("30000 should not be enclosed by the wrapping sector")
	}
}

// TestCircleSector_Overlaps checks both directions of the overlap test.
func TestCircleSector_Overlaps(t *testing.T) {
	a := CircleSector{Start: 1000, End: 5000}
	b := CircleSector{Start: 4000, End: 9000}
	c := CircleSector{Start: 20000, End: 30000}

	if !a.Overlaps(&b) || !b.Overlaps(&a) {
		t.Error("a and b overlap on [4000,5000]")
	}
	if a.Overlaps(&c) || c.Overlaps(&a) {
		t.Error("a and c are disjoint")
	}

	// One sector contained in the other.
	inner := CircleSector{Start: 2000, End: 3000}
	if !a.Overlaps(&inner) || !inner.Overlaps(&a) {
		t.Error("containment is an overlap")
	}
}
