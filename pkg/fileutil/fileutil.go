package fileutil

import (
	"fmt"
	"path/filepath"

	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/spf13/afero"
)

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(fs afero.Fs, dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	fullDir := filepath.Join(targetPath...)
	if fullDir == "" || fullDir == "." {
		return nil
	}
	if err := fs.MkdirAll(fullDir, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// FileSize returns the size of the file at path, or 0 when it does not exist.
func FileSize(fs afero.Fs, path string) int64 {
	info, err := fs.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
