package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// 2D footprint of one tile, tagged with whether the tile is a leaf
type Record struct {
	Path      string
	Footprint orb.Polygon
	Leaf      bool
}

// Returns the XY rectangle covered by a 12 numbers box
func Footprint(box []float64) (orb.Polygon, error) {
	bbox, err := geometry.NewBoundingBoxFromBox(box)
	if err != nil {
		return nil, err
	}

	bound := orb.Bound{
		Min: orb.Point{bbox.Xmin, bbox.Ymin},
		Max: orb.Point{bbox.Xmax, bbox.Ymax},
	}
	return bound.ToPolygon(), nil
}

// One record per tile, in document order
func Collect(root *tileset.Tile) ([]Record, error) {
	var records []Record
	var err error

	tileset.Walk(root, func(tile *tileset.Tile, path string) bool {
		if err != nil {
			return false
		}
		polygon, e := Footprint(tile.BoundingVolume.Box)
		if e != nil {
			err = errors.Wrapf(e, "tile %s", path)
			return false
		}
		records = append(records, Record{
			Path:      path,
			Footprint: polygon,
			Leaf:      tile.HasContent(),
		})
		return true
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

// Writes one "<wkt>;<leaf>" line per record
func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%s;%t\n", wkt.MarshalString(r.Footprint), r.Leaf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Writes the footprints of the whole tree to the given file
func DumpFile(filePath string, root *tileset.Tile) error {
	records, err := Collect(root)
	if err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "cannot create diagnostics dump")
	}

	if err := WriteRecords(file, records); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "cannot write diagnostics dump")
	}
	return errors.Wrap(file.Close(), "cannot write diagnostics dump")
}
