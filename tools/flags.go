package tools

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

const usage = "Usage: %s [glog flags] <input tileset.json> <output tileset.json>\n"

// Positional arguments of the command line
type Args struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Parses the command line. The tool has no flags of its own, the only flags accepted are the glog ones
// (-v, -logtostderr, ...) which must be registered on the default flag set before calling ParseArgs.
func ParseArgs() (Args, error) {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	return ParseArgsFrom(flag.Args())
}

func ParseArgsFrom(args []string) (Args, error) {
	if len(args) != 2 {
		return Args{}, errors.Errorf("expected 2 positional arguments (input, output), got %d", len(args))
	}

	return Args{
		Input:  args[0],
		Output: args[1],
	}, nil
}
