package tileset

import (
	"bytes"
	"encoding/json"

	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/pkg/errors"
)

// A 3D Tiles tileset document. Only the members the repair touches are decoded, every other member
// (asset, geometricError, extensions, extras...) is kept verbatim and written back unchanged.
type Tileset struct {
	Root  *Tile
	extra map[string]json.RawMessage
}

// One node of the tile hierarchy. Children is nil when the "children" member is absent, which is not the
// same as an empty list.
type Tile struct {
	BoundingVolume BoundingVolume
	Content        *Content
	Children       []*Tile
	Transform      []float64
	extra          map[string]json.RawMessage
}

type BoundingVolume struct {
	Box   []float64
	extra map[string]json.RawMessage
}

// Reference to the tile content file. Older tilesets use "url" instead of "uri".
type Content struct {
	URI       string
	legacyURL bool
	extra     map[string]json.RawMessage
}

func (t *Tile) HasContent() bool {
	return t.Content != nil
}

func (t *Tile) HasChildren() bool {
	return t.Children != nil
}

// Returns the root transform, or the identity when the tileset does not declare one
func (ts *Tileset) Transform() []float64 {
	if ts.Root == nil || ts.Root.Transform == nil {
		return geometry.IdentityTransform()
	}
	return ts.Root.Transform
}

func (ts *Tileset) SetTransform(transform []float64) {
	ts.Root.Transform = transform
}

// Shallow copy: the returned tile shares its children with t but owns its own bounding volume box,
// transform and children slice.
func (t *Tile) Copy() *Tile {
	c := *t
	c.BoundingVolume.Box = copyFloats(t.BoundingVolume.Box)
	c.Transform = copyFloats(t.Transform)
	if t.Children != nil {
		c.Children = append(make([]*Tile, 0, len(t.Children)), t.Children...)
	}
	return &c
}

func copyFloats(values []float64) []float64 {
	if values == nil {
		return nil
	}
	return append(make([]float64, 0, len(values)), values...)
}

func (ts *Tileset) UnmarshalJSON(data []byte) error {
	fields, err := splitMembers(data)
	if err != nil {
		return err
	}

	raw, ok := fields["root"]
	if !ok {
		return errors.New("tileset has no root")
	}
	delete(fields, "root")

	var root Tile
	if err := json.Unmarshal(raw, &root); err != nil {
		return errors.Wrap(err, "root")
	}

	ts.Root = &root
	ts.extra = fields
	return nil
}

func (ts Tileset) MarshalJSON() ([]byte, error) {
	fields := copyMembers(ts.extra)
	if err := setMember(fields, "root", ts.Root); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	fields, err := splitMembers(data)
	if err != nil {
		return err
	}

	if raw, ok := fields["boundingVolume"]; ok {
		if err := json.Unmarshal(raw, &t.BoundingVolume); err != nil {
			return errors.Wrap(err, "boundingVolume")
		}
		delete(fields, "boundingVolume")
	}

	if raw, ok := fields["content"]; ok && isNull(raw) {
		delete(fields, "content")
	} else if ok {
		var content Content
		if err := json.Unmarshal(raw, &content); err != nil {
			return errors.Wrap(err, "content")
		}
		t.Content = &content
		delete(fields, "content")
	}

	if raw, ok := fields["children"]; ok {
		children := make([]*Tile, 0)
		if err := json.Unmarshal(raw, &children); err != nil {
			return errors.Wrap(err, "children")
		}
		for i, child := range children {
			if child == nil {
				return errors.Errorf("children[%d] is null", i)
			}
		}
		t.Children = children
		delete(fields, "children")
	}

	if raw, ok := fields["transform"]; ok {
		if err := json.Unmarshal(raw, &t.Transform); err != nil {
			return errors.Wrap(err, "transform")
		}
		delete(fields, "transform")
	}

	t.extra = fields
	return nil
}

func (t Tile) MarshalJSON() ([]byte, error) {
	fields := copyMembers(t.extra)

	if err := setMember(fields, "boundingVolume", t.BoundingVolume); err != nil {
		return nil, err
	}
	if t.Content != nil {
		if err := setMember(fields, "content", t.Content); err != nil {
			return nil, err
		}
	}
	if t.Children != nil {
		if err := setMember(fields, "children", t.Children); err != nil {
			return nil, err
		}
	}
	if t.Transform != nil {
		if err := setMember(fields, "transform", t.Transform); err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

func (bv *BoundingVolume) UnmarshalJSON(data []byte) error {
	fields, err := splitMembers(data)
	if err != nil {
		return err
	}

	if raw, ok := fields["box"]; ok {
		if err := json.Unmarshal(raw, &bv.Box); err != nil {
			return errors.Wrap(err, "box")
		}
		delete(fields, "box")
	}

	bv.extra = fields
	return nil
}

func (bv BoundingVolume) MarshalJSON() ([]byte, error) {
	fields := copyMembers(bv.extra)
	if bv.Box != nil {
		if err := setMember(fields, "box", bv.Box); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	fields, err := splitMembers(data)
	if err != nil {
		return err
	}

	key := "uri"
	if _, ok := fields[key]; !ok {
		if _, ok := fields["url"]; ok {
			key = "url"
			c.legacyURL = true
		}
	}
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &c.URI); err != nil {
			return errors.Wrap(err, key)
		}
		delete(fields, key)
	}

	c.extra = fields
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	fields := copyMembers(c.extra)
	key := "uri"
	if c.legacyURL {
		key = "url"
	}
	if err := setMember(fields, key, c.URI); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func splitMembers(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("expected a JSON object")
	}
	return fields, nil
}

func copyMembers(fields map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func setMember(fields map[string]json.RawMessage, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, key)
	}
	fields[key] = raw
	return nil
}
