package tileset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/pkg/errors"
)

// Reads and decodes the tileset.json file at the given path, checking that every tile carries a
// 12 numbers box bounding volume and that the root transform, if any, has 16 values.
func ReadTileset(filePath string) (*Tileset, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read tileset")
	}

	var ts Tileset
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, errors.Wrapf(err, "cannot decode tileset %s", filePath)
	}

	if err := ts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "malformed tileset %s", filePath)
	}

	return &ts, nil
}

func (ts *Tileset) Validate() error {
	if ts.Root == nil {
		return errors.New("tileset has no root")
	}
	if ts.Root.Transform != nil && len(ts.Root.Transform) != geometry.TransformLength {
		return errors.Errorf("root transform must have %d values, got %d", geometry.TransformLength, len(ts.Root.Transform))
	}

	var err error
	Walk(ts.Root, func(tile *Tile, path string) bool {
		if tile == nil {
			err = errors.Errorf("tile %s is null", path)
			return false
		}
		if len(tile.BoundingVolume.Box) != geometry.BoxLength {
			err = errors.Errorf("tile %s: bounding volume must be a box of %d values", path, geometry.BoxLength)
			return false
		}
		return true
	})

	return err
}

// Writes the tileset.json file. Data is written to a temporary file in the target folder and then
// renamed, so a failed write never leaves a partial document behind.
func WriteTileset(filePath string, ts *Tileset) error {
	jsonData, err := json.MarshalIndent(ts, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot encode tileset")
	}

	parentFolder := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(parentFolder, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "cannot create temporary file")
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(jsonData); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "cannot write tileset")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "cannot write tileset")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "cannot write tileset")
	}

	return errors.Wrap(os.Rename(tmpName, filePath), "cannot write tileset")
}
