package index

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/handiism/scorebook/internal/instrument"
	"github.com/handiism/scorebook/internal/progress"
	"github.com/handiism/scorebook/internal/schema"
)

// FailurePolicy decides what happens when a directory cannot be read.
type FailurePolicy int

const (
	// PolicyAbort stops the run with an error. This is the default.
	PolicyAbort FailurePolicy = iota

	// PolicyContinue records a warning and skips the unreadable directory.
	PolicyContinue
)

// ignorePrefixes mark entries skipped at every level.
const ignorePrefixes = "._"

// DefaultAllowedExtensions lists the part file extensions accepted by default.
var DefaultAllowedExtensions = []string{"svg", "pdf", "png", "jpg", "jpeg", "mp3", "midi", "mid", "mscz"}

// Options configures a Walker.
type Options struct {
	// Policy selects abort or continue on unreadable directories.
	Policy FailurePolicy

	// AllowedExtensions restricts part files. Empty uses DefaultAllowedExtensions.
	AllowedExtensions []string

	// MergeParts merges files of the same part name and instrument into one Part.
	MergeParts bool

	// Resolver resolves instrument names. Nil creates a default Resolver.
	Resolver *instrument.Resolver

	// OnProgress receives warnings as they occur and verbose trace lines.
	OnProgress progress.Func
}

// Walker matches a directory tree against schema nodes and feeds the
// emitters. A Walker serves one run.
type Walker struct {
	fsys     fs.FS
	results  *Results
	resolver *instrument.Resolver
	allowed  map[string]struct{}
	opts     Options
}

// NewWalker creates a Walker reading from fsys and writing into results.
func NewWalker(fsys fs.FS, results *Results, opts Options) (*Walker, error) {
	resolver := opts.Resolver
	if resolver == nil {
		var err error
		resolver, err = instrument.NewResolver(instrument.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create instrument resolver: %w", err)
		}
	}

	exts := opts.AllowedExtensions
	if len(exts) == 0 {
		exts = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Walker{
		fsys:     fsys,
		results:  results,
		resolver: resolver,
		allowed:  allowed,
		opts:     opts,
	}, nil
}

// Walk matches every entry of dir against nodes, runs the emitters and
// recurses into matched directories depth-first.
//
// Structural anomalies become warnings on the Results. The returned error is
// non-nil only for filesystem failures (under PolicyAbort) or cancellation.
func (w *Walker) Walk(ctx context.Context, dir string, nodes []schema.Node, c Context) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		if w.opts.Policy == PolicyContinue {
			w.warn(c, dir, fmt.Sprintf("%s: %v", MsgUnreadable, err))
			return nil
		}
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		if Ignored(name) {
			w.verbose(fmt.Sprintf("Ignoring %s", c.Child(name)))
			continue
		}

		node, ok := schema.Match(nodes, name, entry.IsDir())
		if !ok {
			w.warn(c, name, MsgNoMatch)
			continue
		}

		if node.Kind == schema.KindFile {
			if _, err := w.emit(node.Class, name, c); err != nil {
				return err
			}
			continue
		}

		child := c.Child(name)
		info, err := fs.Stat(w.fsys, child)
		if err != nil {
			if w.opts.Policy == PolicyContinue {
				w.warn(c, name, fmt.Sprintf("%s: %v", MsgUnreadable, err))
				continue
			}
			return fmt.Errorf("stat %s: %w", child, err)
		}
		if !info.IsDir() {
			w.warn(c, name, MsgNotDirectory)
			continue
		}

		next, err := w.emit(node.Class, name, c)
		if err != nil {
			return err
		}
		next.Path = child
		if err := w.Walk(ctx, child, node.Children, next); err != nil {
			return err
		}
	}

	return nil
}

// Ignored reports whether an entry name starts with an ignored prefix.
func Ignored(name string) bool {
	return name != "" && strings.ContainsRune(ignorePrefixes, rune(name[0]))
}

func (w *Walker) extensionAllowed(ext string) bool {
	_, ok := w.allowed[ext]
	return ok
}

func (w *Walker) warn(c Context, entry, message string) {
	warning := w.results.Warn(c.Snapshot(), entry, message)
	w.opts.OnProgress.Emit(progress.LevelWarning, warning.String())
}

func (w *Walker) verbose(message string) {
	w.opts.OnProgress.Emit(progress.LevelVerbose, message)
}

// Index walks the whole archive in fsys against nodes and returns the
// populated Results. On a fatal error no partial Results are returned.
func Index(ctx context.Context, fsys fs.FS, nodes []schema.Node, opts Options) (*Results, error) {
	results := NewResults()
	w, err := NewWalker(fsys, results, opts)
	if err != nil {
		return nil, err
	}
	if err := w.Walk(ctx, ".", nodes, RootContext()); err != nil {
		return nil, err
	}
	return results, nil
}
