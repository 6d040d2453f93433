/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ecopia-map/tileset_repair/internal/repair"
	"github.com/ecopia-map/tileset_repair/pkg"
	"github.com/ecopia-map/tileset_repair/tools"
	"github.com/golang/glog"
)

const VERSION = "1.0.0"

func main() {
	// glog flags are registered on import, flag parsing happens in ParseArgs
	args, err := tools.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	defer glog.Flush()

	glog.Infof("tileset_repair v.%s %s", VERSION, tools.FmtJSONString(args))

	opts, err := repair.LoadOptions(args.Input, args.Output)
	if err != nil {
		glog.Fatal("Error loading options: ", err)
	}
	glog.Infoln("options", tools.FmtJSONString(opts))

	repairer := pkg.NewTilesetRepairer(tools.NewStandardContentFinder(opts.ContentRoot, opts.ContentExtension))
	summary, err := repairer.RunRepair(opts)
	if err != nil {
		glog.Fatal("Error while repairing: ", err)
	}

	tools.LogOutput(fmt.Sprintf("Repair completed, %d of %d content tiles kept",
		summary.After.ContentTiles, summary.Before.ContentTiles))
}
