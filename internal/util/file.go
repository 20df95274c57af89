package util

import (
	"fmt"
	"os"
)

// EnsureDir creates the output directory for exported certificates. An
// existing file at path is an error.
func EnsureDir(path string) error {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", path)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", path, err)
	}
	return nil
}
