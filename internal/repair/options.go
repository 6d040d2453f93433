package repair

import (
	"os"
	"path/filepath"

	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/ecopia-map/tileset_repair/tools"
	"github.com/go-ini/ini"
	"github.com/pkg/errors"
)

const (
	ConfigEnv      = "TILESET_REPAIR_CONFIG"
	ConfigFileName = "tileset_repair.ini"

	DefaultContentExtension  = ".gz"
	DefaultCenteredTolerance = 1e-6
)

// Contains the options needed by the repair pipeline
type RepairOptions struct {
	Input             string                      // Input tileset.json
	Output            string                      // Output tileset.json
	ContentRoot       string                      // Folder content uris are resolved against
	ContentExtension  string                      // Suffix appended to content uris when probing the files
	Thresholds        geometry.ValidityThresholds // Limits of plausible leaf boxes
	Reconcile         bool                        // Fold the root center into the root transform
	SkipCenteredRoot  bool                        // Skip reconciliation when the root is already centered
	CenteredTolerance float64                     // Distance from the origin under which the root counts as centered
	DumpDiagnostics   bool                        // Write WKT footprints of the tree before and after repair
	DiagnosticsDir    string                      // Folder of the footprint dumps
}

// Builds the default options for the given input and output documents. Content is looked up next to
// the input document.
func NewRepairOptions(input string, output string) *RepairOptions {
	return &RepairOptions{
		Input:             input,
		Output:            output,
		ContentRoot:       filepath.Dir(input),
		ContentExtension:  DefaultContentExtension,
		Thresholds:        geometry.DefaultValidityThresholds(),
		Reconcile:         true,
		SkipCenteredRoot:  false,
		CenteredTolerance: DefaultCenteredTolerance,
		DumpDiagnostics:   false,
		DiagnosticsDir:    filepath.Dir(output),
	}
}

// Builds the options for the given documents, applying the overrides of the configuration file
// when one is found: $TILESET_REPAIR_CONFIG, or tileset_repair.ini in the tool root folder.
func LoadOptions(input string, output string) (*RepairOptions, error) {
	opts := NewRepairOptions(input, output)

	configPath, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := opts.ApplyConfigFile(configPath); err != nil {
			return nil, err
		}
	}

	return opts, opts.Validate()
}

func findConfigFile() (string, error) {
	if fromEnv := os.Getenv(ConfigEnv); fromEnv != "" {
		if !tools.FileExists(fromEnv) {
			return "", errors.Errorf("config file %s not found", fromEnv)
		}
		return fromEnv, nil
	}

	rootFolder, err := tools.GetRootFolder()
	if err != nil {
		return "", err
	}
	configPath := filepath.Join(rootFolder, ConfigFileName)
	if !tools.FileExists(configPath) {
		return "", nil
	}
	return configPath, nil
}

// Overrides the options with the values of the given INI file. Keys not present keep their value.
//
//	[content]
//	extension = .gz
//	[validity]
//	center_threshold = 1e6
//	extent_threshold = 5e3
//	[reconcile]
//	enabled = true
//	skip_centered_root = false
//	centered_tolerance = 1e-6
//	[diagnostics]
//	enabled = false
//	dir = /tmp/dumps
func (opt *RepairOptions) ApplyConfigFile(configPath string) error {
	cfg, err := ini.Load(configPath)
	if err != nil {
		return errors.Wrapf(err, "cannot load config file %s", configPath)
	}

	content := cfg.Section("content")
	if content.HasKey("extension") {
		opt.ContentExtension = content.Key("extension").String()
	}

	validity := cfg.Section("validity")
	opt.Thresholds.Center = validity.Key("center_threshold").MustFloat64(opt.Thresholds.Center)
	opt.Thresholds.Extent = validity.Key("extent_threshold").MustFloat64(opt.Thresholds.Extent)

	reconcile := cfg.Section("reconcile")
	opt.Reconcile = reconcile.Key("enabled").MustBool(opt.Reconcile)
	opt.SkipCenteredRoot = reconcile.Key("skip_centered_root").MustBool(opt.SkipCenteredRoot)
	opt.CenteredTolerance = reconcile.Key("centered_tolerance").MustFloat64(opt.CenteredTolerance)

	diagnostics := cfg.Section("diagnostics")
	opt.DumpDiagnostics = diagnostics.Key("enabled").MustBool(opt.DumpDiagnostics)
	opt.DiagnosticsDir = diagnostics.Key("dir").MustString(opt.DiagnosticsDir)

	return nil
}

func (opt *RepairOptions) Validate() error {
	if opt.Input == "" || opt.Output == "" {
		return errors.New("input and output documents are required")
	}
	if opt.Thresholds.Center <= 0 {
		return errors.New("center_threshold must be positive")
	}
	if opt.Thresholds.Extent <= 0 {
		return errors.New("extent_threshold must be positive")
	}
	if opt.CenteredTolerance < 0 {
		return errors.New("centered_tolerance cannot be negative")
	}
	return nil
}
