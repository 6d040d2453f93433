package geometry

import "math"

const (
	DefaultCenterThreshold = 1e6
	DefaultExtentThreshold = 5e3
)

// Magnitude limits a box must respect to be considered numerically plausible. Centers and half extents
// live in different ranges (projected coordinates vs tile sizes) so each has its own limit.
type ValidityThresholds struct {
	Center float64
	Extent float64
}

func DefaultValidityThresholds() ValidityThresholds {
	return ValidityThresholds{
		Center: DefaultCenterThreshold,
		Extent: DefaultExtentThreshold,
	}
}

// Reports whether the given 12 numbers box is plausible: no center coordinate above the center threshold
// and no diagonal half extent above the extent threshold, in absolute value. Boxes of the wrong length
// or holding non finite numbers are never valid.
func (t ValidityThresholds) IsValid(box []float64) bool {
	if len(box) != BoxLength {
		return false
	}

	for _, v := range box {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	for _, c := range box[0:3] {
		if math.Abs(c) > t.Center {
			return false
		}
	}

	for _, h := range []float64{box[3], box[7], box[11]} {
		if math.Abs(h) > t.Extent {
			return false
		}
	}

	return true
}
