package pkg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/tileset_repair/internal/repair"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/ecopia-map/tileset_repair/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// root -> 2 internal -> 4 leaves: b.b3dm has an out of range extent, c.b3dm has no content file
const inputTileset = `{
	"asset": {"version": "1.0", "generator": "pg2b3dm"},
	"geometricError": 500,
	"root": {
		"geometricError": 500,
		"refine": "ADD",
		"transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1],
		"boundingVolume": {"box": [0,0,0, 1,0,0, 0,1,0, 0,0,1]},
		"children": [
			{
				"geometricError": 100,
				"boundingVolume": {"box": [0,0,0, 1,0,0, 0,1,0, 0,0,1]},
				"children": [
					{"geometricError": 0, "boundingVolume": {"box": [10,10,0, 5,0,0, 0,5,0, 0,0,2]}, "content": {"uri": "tiles/a.b3dm"}},
					{"geometricError": 0, "boundingVolume": {"box": [30,10,0, 5001,0,0, 0,5,0, 0,0,2]}, "content": {"uri": "tiles/b.b3dm"}}
				]
			},
			{
				"geometricError": 100,
				"boundingVolume": {"box": [0,0,0, 1,0,0, 0,1,0, 0,0,1]},
				"children": [
					{"geometricError": 0, "boundingVolume": {"box": [10,50,5, 5,0,0, 0,5,0, 0,0,3]}, "content": {"uri": "tiles/c.b3dm"}},
					{"geometricError": 0, "boundingVolume": {"box": [40,60,5, 5,0,0, 0,5,0, 0,0,3]}, "content": {"uri": "tiles/d.b3dm"}}
				]
			}
		]
	}
}`

func writeFixture(t *testing.T, document string, contents ...string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tiles"), 0777))
	for _, uri := range contents {
		require.NoError(t, os.WriteFile(filepath.Join(dir, uri+".gz"), []byte{0x1f, 0x8b}, 0666))
	}

	input := filepath.Join(dir, "tileset_og.json")
	require.NoError(t, os.WriteFile(input, []byte(document), 0666))
	return input
}

func runRepair(t *testing.T, input string, configure func(opts *repair.RepairOptions)) (*repair.RepairOptions, *Summary, error) {
	t.Helper()

	opts := repair.NewRepairOptions(input, filepath.Join(filepath.Dir(input), "tileset.json"))
	if configure != nil {
		configure(opts)
	}
	repairer := NewTilesetRepairer(tools.NewStandardContentFinder(opts.ContentRoot, opts.ContentExtension))
	summary, err := repairer.RunRepair(opts)
	return opts, summary, err
}

func TestRunRepair(t *testing.T) {
	input := writeFixture(t, inputTileset, "tiles/a.b3dm", "tiles/b.b3dm", "tiles/d.b3dm")

	opts, summary, err := runRepair(t, input, nil)
	require.NoError(t, err)

	ts, err := tileset.ReadTileset(opts.Output)
	require.NoError(t, err)

	root := ts.Root
	require.Len(t, root.Children, 2)
	require.Len(t, root.Children[0].Children, 1)
	require.Len(t, root.Children[1].Children, 1)
	assert.Equal(t, "tiles/a.b3dm", root.Children[0].Children[0].Content.URI)
	assert.Equal(t, "tiles/d.b3dm", root.Children[1].Children[0].Content.URI)

	assert.Equal(t, []float64{10, 10, 0, 5, 0, 0, 0, 5, 0, 0, 0, 2}, root.Children[0].BoundingVolume.Box)
	assert.Equal(t, []float64{40, 60, 5, 5, 0, 0, 0, 5, 0, 0, 0, 3}, root.Children[1].BoundingVolume.Box)
	assert.Equal(t, []float64{25, 35, 3, 20, 0, 0, 0, 30, 0, 0, 0, 5}, root.BoundingVolume.Box)

	// the root center is folded into the translation
	assert.Equal(t, []float64{25, 35, 3}, ts.Transform()[12:15])

	assert.Equal(t, tileset.TileStats{Tiles: 7, ContentTiles: 4, MaxDepth: 2}, summary.Before)
	assert.Equal(t, tileset.TileStats{Tiles: 5, ContentTiles: 2, MaxDepth: 2}, summary.After)
	assert.Equal(t, 1, summary.Report.Count(repair.DropInvalidBox))
	assert.Equal(t, 1, summary.Report.Count(repair.DropMissingContent))
	require.NotNil(t, summary.Reconciliation)

	// unknown members survive
	var written map[string]interface{}
	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, map[string]interface{}{"version": "1.0", "generator": "pg2b3dm"}, written["asset"])
	assert.Equal(t, "ADD", written["root"].(map[string]interface{})["refine"])

	// the input is never modified
	original, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, inputTileset, string(original))
}

func TestRunRepairWithoutReconciliation(t *testing.T) {
	input := writeFixture(t, inputTileset, "tiles/a.b3dm", "tiles/b.b3dm", "tiles/c.b3dm", "tiles/d.b3dm")

	opts, summary, err := runRepair(t, input, func(opts *repair.RepairOptions) {
		opts.Reconcile = false
	})
	require.NoError(t, err)
	assert.Nil(t, summary.Reconciliation)

	ts, err := tileset.ReadTileset(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, ts.Transform()[12:15])
	assert.Equal(t, 3, summary.After.ContentTiles)
}

func TestRunRepairEmptiedTileset(t *testing.T) {
	input := writeFixture(t, inputTileset)

	opts, summary, err := runRepair(t, input, nil)
	require.NoError(t, err)
	assert.Nil(t, summary.Reconciliation)
	assert.Equal(t, tileset.TileStats{Tiles: 1}, summary.After)

	ts, err := tileset.ReadTileset(opts.Output)
	require.NoError(t, err)
	assert.False(t, ts.Root.HasChildren())
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1}, ts.Root.BoundingVolume.Box)
}

func TestRunRepairDumpsDiagnostics(t *testing.T) {
	input := writeFixture(t, inputTileset, "tiles/a.b3dm", "tiles/d.b3dm")
	dumpDir := filepath.Join(filepath.Dir(input), "dumps")

	_, _, err := runRepair(t, input, func(opts *repair.RepairOptions) {
		opts.DumpDiagnostics = true
		opts.DiagnosticsDir = dumpDir
	})
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(dumpDir, "tileset_before.wkt"))
	require.NoError(t, err)
	after, err := os.ReadFile(filepath.Join(dumpDir, "tileset_after.wkt"))
	require.NoError(t, err)

	assert.Equal(t, 7, strings.Count(string(before), "\n"))
	assert.Equal(t, 5, strings.Count(string(after), "\n"))
	assert.Equal(t, 2, strings.Count(string(after), ";true"))
}

func TestRunRepairFailsOnMalformedInput(t *testing.T) {
	input := writeFixture(t, `{"root": {"boundingVolume": {"sphere": [0, 0, 0, 10]}}}`)

	opts, _, err := runRepair(t, input, nil)
	require.Error(t, err)

	_, statErr := os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(statErr), "no output is written on fatal errors")
}

func TestRunRepairFailsOnRotatedBox(t *testing.T) {
	document := `{"root": {
		"boundingVolume": {"box": [0,0,0, 1,0,0, 0,1,0, 0,0,1]},
		"children": [{"boundingVolume": {"box": [0,0,0, 1,1,0, -1,1,0, 0,0,1]}, "content": {"uri": "tiles/r.b3dm"}}]
	}}`
	input := writeFixture(t, document, "tiles/r.b3dm")

	opts, _, err := runRepair(t, input, nil)
	require.Error(t, err)

	_, statErr := os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(statErr))
}
