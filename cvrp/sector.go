package cvrp

// maxAngle is the resolution of the integer polar angle representation:
// angles live in [0, maxAngle) and all sector arithmetic is modular.
const maxAngle = 65536

// CircleSector is an angular interval around the depot, used by the local
// search to prune SWAP* route pairs whose customer sectors cannot overlap.
//
// The zero value is the empty sector; Extend grows it minimally so that
// the given angle becomes enclosed.
type CircleSector struct {
	Start int32
	End   int32
}

// modAngle reduces a into [0, maxAngle), the Euclidean remainder.
func modAngle(a int32) int32 {
	a %= maxAngle
	if a < 0 {
		a += maxAngle
	}

	return a
}

// Reset empties the sector.
func (s *CircleSector) Reset() {
	s.Start = 0
	s.End = 0
}

// SetFromAngle collapses the sector onto a single angle.
func (s *CircleSector) SetFromAngle(angle int32) {
	s.Start = angle
	s.End = angle
}

// Extend grows the sector by the smaller of the two possible arcs so that
// angle becomes enclosed. A zero (never initialized) sector collapses onto
// the angle first.
func (s *CircleSector) Extend(angle int32) {
	if s.Start == 0 && s.End == 0 {
		s.SetFromAngle(angle)
		return
	}
	if s.Encloses(angle) {
		return
	}
	if modAngle(angle-s.End) <= modAngle(s.Start-angle) {
		s.End = angle
	} else {
		s.Start = angle
	}
}

// Encloses reports whether angle lies within the sector.
func (s *CircleSector) Encloses(angle int32) bool {
	return modAngle(angle-s.Start) <= modAngle(s.End-s.Start)
}

// Overlaps reports whether the two sectors share at least one angle.
func (s *CircleSector) Overlaps(other *CircleSector) bool {
	return modAngle(other.Start-s.Start) <= modAngle(s.End-s.Start) ||
		modAngle(s.Start-other.Start) <= modAngle(other.End-other.Start)
}
