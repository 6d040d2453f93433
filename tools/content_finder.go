package tools

import (
	"os"
	"path/filepath"
)

// Probes the presence of tile content files
type ContentFinder interface {
	ContentExists(uri string) bool
	ContentPath(uri string) string
}

// Looks up content files on the local filesystem as <root>/<uri><extension>, the extension being the
// compression suffix the content files were written with (e.g. ".gz")
type StandardContentFinder struct {
	root      string
	extension string
}

func NewStandardContentFinder(root string, extension string) ContentFinder {
	return &StandardContentFinder{
		root:      root,
		extension: extension,
	}
}

func (f *StandardContentFinder) ContentPath(uri string) string {
	return filepath.Join(f.root, filepath.FromSlash(uri+f.extension))
}

// Only stats the file, content is never opened
func (f *StandardContentFinder) ContentExists(uri string) bool {
	info, err := os.Stat(f.ContentPath(uri))
	return err == nil && !info.IsDir()
}
