package pkg

import (
	"path/filepath"
	"time"

	"github.com/ecopia-map/tileset_repair/internal/diagnostics"
	"github.com/ecopia-map/tileset_repair/internal/repair"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/ecopia-map/tileset_repair/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type IRepairer interface {
	RunRepair(opts *repair.RepairOptions) (*Summary, error)
}

// Outcome of a repair run
type Summary struct {
	Before         tileset.TileStats
	After          tileset.TileStats
	Report         *repair.Report
	Reconciliation *repair.Reconciliation // nil when reconciliation did not run
}

type TilesetRepairer struct {
	contentFinder tools.ContentFinder
}

func NewTilesetRepairer(contentFinder tools.ContentFinder) IRepairer {
	return &TilesetRepairer{
		contentFinder: contentFinder,
	}
}

// Loads the input tileset, prunes it, recomputes the bounding volumes, reconciles the root transform and
// writes the output tileset. The output tileset is not written when any step fails.
func (r *TilesetRepairer) RunRepair(opts *repair.RepairOptions) (*Summary, error) {
	defer tools.TimeTrack(time.Now(), "repair")

	glog.Infoln("> reading tileset...", opts.Input)
	ts, err := tileset.ReadTileset(opts.Input)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Before: tileset.CountTiles(ts.Root)}
	glog.Infof("tileset has %d tiles, %d with content, depth %d",
		summary.Before.Tiles, summary.Before.ContentTiles, summary.Before.MaxDepth)

	r.dumpDiagnostics(opts, ts.Root, "before")

	glog.Infoln("> removing invalid leaves...")
	pruned, report := repair.NewPruner(r.contentFinder, opts.Thresholds).Prune(ts.Root)
	summary.Report = report
	glog.Infof("removed %d tiles: %d missing content, %d invalid box, %d collapsed",
		len(report.Drops),
		report.Count(repair.DropMissingContent),
		report.Count(repair.DropInvalidBox),
		report.Count(repair.DropCollapsed))

	if !pruned.HasContent() && !pruned.HasChildren() {
		glog.Warningln("every tile was removed, writing an empty tileset")
		ts.Root = pruned
	} else {
		glog.Infoln("> recomputing bounding volumes...")
		recomputed, err := repair.Recompute(pruned)
		if err != nil {
			return nil, errors.Wrap(err, "cannot recompute bounding volumes")
		}
		ts.Root = recomputed

		if opts.Reconcile {
			glog.Infoln("> reconciling root transform...")
			reconciliation, err := repair.Reconcile(ts.Root, ts.Transform(), opts.SkipCenteredRoot, opts.CenteredTolerance)
			if err != nil {
				return nil, errors.Wrap(err, "cannot reconcile transform")
			}
			ts.SetTransform(reconciliation.Transform)
			summary.Reconciliation = reconciliation
		}
	}

	summary.After = tileset.CountTiles(ts.Root)
	r.dumpDiagnostics(opts, ts.Root, "after")

	glog.Infoln("> writing tileset...", opts.Output)
	if err := tileset.WriteTileset(opts.Output, ts); err != nil {
		return nil, err
	}

	glog.Infof("tileset now has %d tiles, %d with content", summary.After.Tiles, summary.After.ContentTiles)

	return summary, nil
}

// The dump is a debugging aid, failing to write it never fails the run
func (r *TilesetRepairer) dumpDiagnostics(opts *repair.RepairOptions, root *tileset.Tile, stage string) {
	if !opts.DumpDiagnostics {
		return
	}

	if err := tools.CreateDirectoryIfDoesNotExist(opts.DiagnosticsDir); err != nil {
		glog.Warningln("cannot create diagnostics folder:", err)
		return
	}

	dumpPath := filepath.Join(opts.DiagnosticsDir, getFilenameWithoutExtension(opts.Output)+"_"+stage+".wkt")
	if err := diagnostics.DumpFile(dumpPath, root); err != nil {
		glog.Warningln("cannot write diagnostics dump:", err)
		return
	}
	glog.Infoln("wrote footprints to", dumpPath)
}

func getFilenameWithoutExtension(filePath string) string {
	nameWext := filepath.Base(filePath)
	extension := filepath.Ext(nameWext)
	return nameWext[0 : len(nameWext)-len(extension)]
}
