package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Axis aligned bounding box stored as min/max intervals on each axis, together with the interval midpoints.
// Used as working state while merging tile volumes, it is never persisted as such.
type BoundingBox struct {
	Xmin float64
	Xmax float64
	Ymin float64
	Ymax float64
	Zmin float64
	Zmax float64
	Xmid float64
	Ymid float64
	Zmid float64
}

// Builds a new BoundingBox from the given intervals, computing the midpoints
func NewBoundingBox(minX, maxX, minY, maxY, minZ, maxZ float64) *BoundingBox {
	return &BoundingBox{
		Xmin: minX,
		Xmax: maxX,
		Ymin: minY,
		Ymax: maxY,
		Zmin: minZ,
		Zmax: maxZ,
		Xmid: (minX + maxX) / 2,
		Ymid: (minY + maxY) / 2,
		Zmid: (minZ + maxZ) / 2,
	}
}

// Returns the box as (xmin, xmax, ymin, ymax, zmin, zmax)
func (b *BoundingBox) GetAsArray() []float64 {
	return []float64{b.Xmin, b.Xmax, b.Ymin, b.Ymax, b.Zmin, b.Zmax}
}

func (b *BoundingBox) Center() r3.Vector {
	return r3.Vector{X: b.Xmid, Y: b.Ymid, Z: b.Zmid}
}

// Half of the box edge length along each axis
func (b *BoundingBox) HalfSize() r3.Vector {
	return r3.Vector{
		X: (b.Xmax - b.Xmin) / 2,
		Y: (b.Ymax - b.Ymin) / 2,
		Z: (b.Zmax - b.Zmin) / 2,
	}
}

// Returns the smallest BoundingBox containing both a and b. Neither input is modified.
func MergeBoundingBox(a, b *BoundingBox) *BoundingBox {
	return NewBoundingBox(
		math.Min(a.Xmin, b.Xmin), math.Max(a.Xmax, b.Xmax),
		math.Min(a.Ymin, b.Ymin), math.Max(a.Ymax, b.Ymax),
		math.Min(a.Zmin, b.Zmin), math.Max(a.Zmax, b.Zmax),
	)
}
