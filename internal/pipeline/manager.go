package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/handiism/scorebook/internal/catalog"
	"github.com/handiism/scorebook/internal/config"
	"github.com/handiism/scorebook/internal/index"
	"github.com/handiism/scorebook/internal/instrument"
	"github.com/handiism/scorebook/internal/progress"
	"github.com/handiism/scorebook/internal/publish"
	"github.com/handiism/scorebook/internal/schema"
)

// ErrNotIndexed is returned when a later stage runs before Index.
var ErrNotIndexed = errors.New("archive has not been indexed")

// Stage identifies the step a Manager is in.
type Stage int

const (
	StageIdle Stage = iota
	StageIndexing
	StagePublishing
	StageCataloging
	StageDone
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageIndexing:
		return "indexing"
	case StagePublishing:
		return "publishing"
	case StageCataloging:
		return "cataloging"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Summary describes a finished run.
type Summary struct {
	Stats     index.Stats
	Report    publish.Report
	Documents []string
	Location  string
	Exported  bool
	Duration  time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithSource reads the archive from fsys instead of the input directory.
func WithSource(fsys fs.FS) Option {
	return func(m *Manager) { m.src = fsys }
}

// WithSink publishes into sink instead of the configured one.
func WithSink(sink publish.Sink) Option {
	return func(m *Manager) { m.sink = sink }
}

// Manager coordinates a run: index the archive, publish its assets and
// write the catalog.
type Manager struct {
	settings  *config.Settings
	src       fs.FS
	sink      publish.Sink
	resolver  *instrument.Resolver
	publisher *publish.Publisher

	results *index.Results
	report  publish.Report
	stage   Stage
	started time.Time

	onProgress progress.Func
	mu         sync.RWMutex
}

// NewManager creates a Manager from settings.
func NewManager(settings *config.Settings, onProgress progress.Func, opts ...Option) (*Manager, error) {
	m := &Manager{settings: settings, onProgress: onProgress}
	for _, opt := range opts {
		opt(m)
	}

	if m.src == nil {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		info, err := os.Stat(settings.InputPath)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("input %s is not a directory", settings.InputPath)
		}
		m.src = os.DirFS(settings.InputPath)
	}

	if m.sink == nil {
		sink, err := newSink(settings)
		if err != nil {
			return nil, err
		}
		m.sink = sink
	}
	m.sink = publish.WithRetry(m.sink, settings.ToRetryPolicy(), onProgress)

	resolver, err := instrument.NewResolver(settings.ResolverCacheSize)
	if err != nil {
		return nil, err
	}
	m.resolver = resolver

	pubOpts := settings.ToPublishOptions()
	pubOpts.OnProgress = onProgress
	publisher, err := publish.NewPublisher(m.src, m.sink, pubOpts)
	if err != nil {
		return nil, err
	}
	m.publisher = publisher

	return m, nil
}

func newSink(settings *config.Settings) (publish.Sink, error) {
	switch settings.Sink {
	case config.SinkS3:
		return publish.NewS3Sink(settings.ToS3Config())
	case config.SinkLocal, "":
		return publish.NewLocalSink(settings.OutputPath), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", settings.Sink)
	}
}

// Run executes every stage in order.
func (m *Manager) Run(ctx context.Context) (*Summary, error) {
	if err := m.Index(ctx); err != nil {
		return nil, err
	}
	return m.Finish(ctx)
}

// Finish runs the stages after Index: publish, catalog and export.
func (m *Manager) Finish(ctx context.Context) (*Summary, error) {
	if err := m.Publish(ctx); err != nil {
		return nil, err
	}
	docs, err := m.WriteCatalog(ctx)
	if err != nil {
		return nil, err
	}
	exported, err := m.Export(ctx)
	if err != nil {
		return nil, err
	}
	m.setStage(StageDone)

	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Summary{
		Stats:     m.results.Stats(),
		Report:    m.report,
		Documents: docs,
		Location:  m.sink.Location(),
		Exported:  exported,
		Duration:  time.Since(m.started),
	}, nil
}

// Index walks the archive and keeps the results.
func (m *Manager) Index(ctx context.Context) error {
	m.mu.Lock()
	m.started = time.Now()
	m.stage = StageIndexing
	m.mu.Unlock()
	m.progress(progress.LevelInfo, "Indexing archive")

	nodes := schema.Default()
	if m.settings.Untagged {
		nodes = schema.Untagged()
	}
	opts := m.settings.ToIndexOptions()
	opts.Resolver = m.resolver
	opts.OnProgress = m.onProgress

	results, err := index.Index(ctx, m.src, nodes, opts)
	if err != nil {
		m.progress(progress.LevelError, fmt.Sprintf("Indexing failed: %v", err))
		return err
	}

	m.mu.Lock()
	m.results = results
	m.mu.Unlock()

	stats := results.Stats()
	m.progress(progress.LevelInfo, fmt.Sprintf("Found %d songs, %d arrangements, %d parts (%d warnings)",
		stats.Songs, stats.Arrangements, stats.Parts, stats.Warnings))
	return nil
}

// Publish copies every indexed asset to the sink.
func (m *Manager) Publish(ctx context.Context) error {
	results := m.Results()
	if results == nil {
		return ErrNotIndexed
	}
	m.setStage(StagePublishing)
	m.progress(progress.LevelInfo, fmt.Sprintf("Publishing to %s", m.sink.Location()))

	report, err := m.publisher.Publish(ctx, results)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.report = report
	m.mu.Unlock()
	return nil
}

// WriteCatalog stores the collection and warnings documents in the sink.
func (m *Manager) WriteCatalog(ctx context.Context) ([]string, error) {
	results := m.Results()
	if results == nil {
		return nil, ErrNotIndexed
	}
	m.setStage(StageCataloging)

	keys, err := catalog.Write(ctx, m.sink, results)
	if err != nil {
		m.progress(progress.LevelError, fmt.Sprintf("Error writing catalog: %v", err))
		return keys, err
	}
	for _, key := range keys {
		m.progress(progress.LevelVerbose, fmt.Sprintf("Wrote %s", key))
	}
	if len(results.Warnings) > 0 {
		m.progress(progress.LevelWarning, fmt.Sprintf("%d warnings written to %s", len(results.Warnings), catalog.WarningsKey))
	}
	return keys, nil
}

// Export mirrors the catalog into Postgres when a DSN is configured. It
// reports whether an export took place.
func (m *Manager) Export(ctx context.Context) (bool, error) {
	results := m.Results()
	if results == nil {
		return false, ErrNotIndexed
	}
	if m.settings.PostgresDSN == "" {
		return false, nil
	}

	store, err := catalog.OpenPostgres(ctx, m.settings.PostgresDSN)
	if err != nil {
		return false, err
	}
	defer store.Close()

	if err := store.Replace(ctx, catalog.Flatten(results.Songs)); err != nil {
		m.progress(progress.LevelError, fmt.Sprintf("Postgres export failed: %v", err))
		return false, err
	}
	m.progress(progress.LevelSuccess, "Exported catalog to Postgres")
	return true, nil
}

// Results returns the indexed results, or nil before Index succeeds.
func (m *Manager) Results() *index.Results {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.results
}

// Stage returns the current stage.
func (m *Manager) Stage() Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

// GetProgress returns the number of published files and the planned total.
func (m *Manager) GetProgress() (written, total int32) {
	return m.publisher.Progress()
}

// GetSongNames returns a display line for every indexed song.
func (m *Manager) GetSongNames() []string {
	results := m.Results()
	if results == nil {
		return nil
	}
	names := make([]string, len(results.Songs))
	for i, song := range results.Songs {
		names[i] = fmt.Sprintf("%s (%d arrangements)", song.Title, len(song.Arrangements))
	}
	return names
}

func (m *Manager) setStage(s Stage) {
	m.mu.Lock()
	m.stage = s
	m.mu.Unlock()
}

func (m *Manager) progress(level progress.Level, message string) {
	m.onProgress.Emit(level, message)
}
