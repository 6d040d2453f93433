package geometry

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Number of values of a tile transform: a 4x4 affine matrix stored column-major
const TransformLength = 16

// Indexes of the translation components inside a column-major 4x4 matrix
const (
	TranslationX = 12
	TranslationY = 13
	TranslationZ = 14
)

func IdentityTransform() []float64 {
	return []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TransformTranslation(transform []float64) r3.Vector {
	return r3.Vector{
		X: transform[TranslationX],
		Y: transform[TranslationY],
		Z: transform[TranslationZ],
	}
}

// Applies the column-major affine transform to the point p
func TransformPoint(transform []float64, p r3.Vector) (r3.Vector, error) {
	if len(transform) != TransformLength {
		return r3.Vector{}, errors.Errorf("transform must have %d values, got %d", TransformLength, len(transform))
	}

	// mat.Dense is row-major, so the column-major data loads as the transpose
	m := mat.NewDense(4, 4, append([]float64(nil), transform...))
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})

	var out mat.VecDense
	out.MulVec(m.T(), v)

	w := out.AtVec(3)
	if w == 0 {
		return r3.Vector{}, errors.New("transform maps point to infinity")
	}

	return r3.Vector{X: out.AtVec(0) / w, Y: out.AtVec(1) / w, Z: out.AtVec(2) / w}, nil
}
