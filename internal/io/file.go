package ioutils

import (
	"context"
	"os"
	"path/filepath"
)

// WriteFile writes data to path, creating parent directories as needed.
//
// The file is created with mode 0644 and truncated if it already exists, so
// two writes to the same path leave the last one in place.
//
// Example:
//
//	err := WriteFile(ctx, "/out/funk/song/arr/song-tuba.svg", data)
//	// Creates /out/funk/song/arr if needed
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
