package geometry

import (
	"math"

	"github.com/pkg/errors"
)

// Number of values of a 3D Tiles "box" bounding volume: center (0-2) followed by
// the x (3-5), y (6-8) and z (9-11) half-axis vectors.
const BoxLength = 12

// Off-diagonal entries of the half-axis matrix, all zero for an axis aligned box
var offDiagonalIndexes = [6]int{4, 5, 6, 8, 9, 10}

const axisAlignedTolerance = 1e-9

var ErrRotatedBox = errors.New("box is not axis aligned")

// Converts a 12 numbers box into its min/max intervals, reading the half extents from the diagonal of the
// half-axis matrix (indexes 3, 7, 11). Rotated boxes cannot be represented and yield ErrRotatedBox.
func NewBoundingBoxFromBox(box []float64) (*BoundingBox, error) {
	if len(box) != BoxLength {
		return nil, errors.Errorf("box must have %d values, got %d", BoxLength, len(box))
	}
	for _, i := range offDiagonalIndexes {
		if math.Abs(box[i]) > axisAlignedTolerance {
			return nil, errors.Wrapf(ErrRotatedBox, "half-axis entry %d is %v", i, box[i])
		}
	}

	cx, cy, cz := box[0], box[1], box[2]
	hx, hy, hz := box[3], box[7], box[11]

	return NewBoundingBox(cx-hx, cx+hx, cy-hy, cy+hy, cz-hz, cz+hz), nil
}

// Encodes the bounding box as a 12 numbers axis aligned box
func (b *BoundingBox) ToBox() []float64 {
	c := b.Center()
	h := b.HalfSize()

	return []float64{
		c.X, c.Y, c.Z,
		h.X, 0, 0,
		0, h.Y, 0,
		0, 0, h.Z,
	}
}
