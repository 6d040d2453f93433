package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

const WorkdirEnv = "TILESET_REPAIR_WORKDIR"

// Returns the folder the tool reads its configuration from: $TILESET_REPAIR_WORKDIR when set, the
// repository root when running tests, the executable folder otherwise
func GetRootFolder() (string, error) {
	assetsFromEnv := os.Getenv(WorkdirEnv)
	if assetsFromEnv != "" {
		return assetsFromEnv, nil
	} else if strings.HasSuffix(os.Args[0], ".test") || strings.HasSuffix(os.Args[0], ".test.exe") {
		_, b, _, _ := runtime.Caller(0)
		return filepath.Dir(filepath.Dir(b)), nil
	}

	ex, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "cannot retrieve executable directory")
	}
	return filepath.Dir(ex), nil
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}
