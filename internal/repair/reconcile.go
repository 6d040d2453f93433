package repair

import (
	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/golang/geo/r3"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Reconciliation struct {
	Offset    r3.Vector // root box center folded into the translation
	Transform []float64 // resulting transform
	Skipped   bool      // root already centered and SkipCenteredRoot set
}

// Folds the root box center into the translation of the given transform, so that bounding volumes
// and transform agree on where the content sits. Boxes are not modified.
//
// Running it twice adds the offset twice. With skipCentered set, a root whose center lies within
// tolerance of the origin is taken as already reconciled and the transform is returned unchanged.
func Reconcile(root *tileset.Tile, transform []float64, skipCentered bool, tolerance float64) (*Reconciliation, error) {
	if len(transform) != geometry.TransformLength {
		return nil, errors.Errorf("transform must have %d values, got %d", geometry.TransformLength, len(transform))
	}

	bbox, err := geometry.NewBoundingBoxFromBox(root.BoundingVolume.Box)
	if err != nil {
		return nil, errors.Wrap(err, "root")
	}
	offset := bbox.Center()

	result := &Reconciliation{
		Offset:    offset,
		Transform: append([]float64(nil), transform...),
	}

	if skipCentered && offset.Norm() <= tolerance {
		glog.Infof("Root center %v within %v of the origin, transform left unchanged", offset, tolerance)
		result.Skipped = true
		return result, nil
	}

	if world, err := geometry.TransformPoint(transform, offset); err == nil {
		glog.Infof("Root center %v, world position %v", offset, world)
	}

	for i, v := range []float64{offset.X, offset.Y, offset.Z} {
		index := geometry.TranslationX + i
		// decimal keeps the sum exact until the final rounding
		sum, _ := decimal.NewFromFloat(transform[index]).Add(decimal.NewFromFloat(v)).Float64()
		result.Transform[index] = sum
	}

	glog.Infof("Transform translation %v -> %v", geometry.TransformTranslation(transform), geometry.TransformTranslation(result.Transform))

	return result, nil
}
