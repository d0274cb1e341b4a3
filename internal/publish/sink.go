package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/scorebook/internal/io"
)

// Sink stores published objects under slash-separated output-relative keys.
type Sink interface {
	// Put stores data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the object under key. A missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Location describes where the sink writes, for diagnostics.
	Location() string
}

// LocalSink writes objects into a directory tree.
type LocalSink struct {
	root string
}

// NewLocalSink creates a sink rooted at dir.
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{root: dir}
}

// Put writes data to root/key, creating intermediate directories.
func (s *LocalSink) Put(ctx context.Context, key string, data []byte) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, filepath.Join(s.root, filepath.FromSlash(clean)), data)
}

// Delete removes root/key if it exists.
func (s *LocalSink) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Location returns the root directory.
func (s *LocalSink) Location() string {
	return s.root
}

// cleanKey validates an output-relative key.
func cleanKey(key string) (string, error) {
	clean := path.Clean(strings.TrimLeft(strings.TrimSpace(key), "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid output key %q", key)
	}
	return clean, nil
}
