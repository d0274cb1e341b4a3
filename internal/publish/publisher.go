package publish

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/scorebook/internal/audio"
	"github.com/handiism/scorebook/internal/index"
	ioutils "github.com/handiism/scorebook/internal/io"
	"github.com/handiism/scorebook/internal/model"
	"github.com/handiism/scorebook/internal/progress"
)

// Warning messages raised while publishing.
const (
	MsgCollision     = "output path collides with"
	MsgPreviewFailed = "cannot create preview"
	MsgStampFailed   = "cannot stamp audio tags"
)

// PreviewSuffix replaces the extension of a raster asset to name its preview.
const PreviewSuffix = ".preview.jpg"

// DefaultPreviewMaxSize bounds the longer side of a preview in pixels.
const DefaultPreviewMaxSize = 400

// Options configures a Publisher.
type Options struct {
	// Concurrency bounds the number of files processed at once. Values
	// below one mean four.
	Concurrency int

	// Previews enables JPEG thumbnails of raster assets.
	Previews bool

	// PreviewMaxSize bounds previews. Zero uses DefaultPreviewMaxSize.
	PreviewMaxSize int

	// PreviewQuality is the JPEG quality of previews.
	PreviewQuality int

	// StampAudio writes song metadata into mp3 part files.
	StampAudio bool

	// OnProgress receives per-file trace lines and warnings.
	OnProgress progress.Func
}

// Report summarises a publish run.
type Report struct {
	Files      int
	Previews   int
	Stamped    int
	Collisions int
	Bytes      int64
}

// Publisher copies every accepted file referenced by a Results into a Sink,
// mirroring input-relative paths, and rewrites each file URL to its key.
type Publisher struct {
	src    fs.FS
	sink   Sink
	opts   Options
	images *ioutils.ImageService
	tagger *audio.Tagger

	total   int32
	written int32
	bytes   int64
}

// job is one file to publish.
type job struct {
	key     string
	file    *model.CollectionFile
	song    *model.Song
	arr     *model.Arrangement
	part    *model.Part
	preview string
}

// NewPublisher creates a Publisher reading sources from src.
func NewPublisher(src fs.FS, sink Sink, opts Options) (*Publisher, error) {
	if src == nil {
		return nil, fmt.Errorf("publisher needs a source filesystem")
	}
	if sink == nil {
		return nil, fmt.Errorf("publisher needs a sink")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	if opts.PreviewMaxSize <= 0 {
		opts.PreviewMaxSize = DefaultPreviewMaxSize
	}
	return &Publisher{
		src:    src,
		sink:   sink,
		opts:   opts,
		images: ioutils.NewImageService(opts.PreviewQuality),
		tagger: audio.NewTagger(audio.DefaultTagConfig()),
	}, nil
}

// Progress returns the number of files written so far and the planned total.
func (p *Publisher) Progress() (written, total int32) {
	return atomic.LoadInt32(&p.written), atomic.LoadInt32(&p.total)
}

// Publish writes every file of res to the sink.
//
// Output keys are compared case-insensitively before anything is written.
// When two sources map to one key the first in model order wins; the later
// reference is removed from the model and recorded as a warning in res.
func (p *Publisher) Publish(ctx context.Context, res *index.Results) (Report, error) {
	var report Report

	jobs, collisions := p.plan(res)
	report.Collisions = collisions
	atomic.StoreInt32(&p.total, int32(len(jobs)))
	atomic.StoreInt32(&p.written, 0)
	atomic.StoreInt64(&p.bytes, 0)

	var (
		previews int32
		stamped  int32
		mu       sync.Mutex
		warnings []model.Warning
	)
	warn := func(j job, msg string) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, model.Warning{
			Context: snapshot(j.song, j.arr, j.file.Source),
			Entry:   path.Base(j.file.Source),
			Message: msg,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, j := range jobs {
		g.Go(func() error {
			didStamp, didPreview, err := p.publishOne(gctx, j, warn)
			if err != nil {
				return err
			}
			if didStamp {
				atomic.AddInt32(&stamped, 1)
			}
			if didPreview {
				atomic.AddInt32(&previews, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.opts.OnProgress.Emit(progress.LevelError, fmt.Sprintf("Publishing to %s failed: %v", p.sink.Location(), err))
		return report, err
	}

	sort.SliceStable(warnings, func(i, k int) bool {
		return warnings[i].Context.Path+"/"+warnings[i].Entry < warnings[k].Context.Path+"/"+warnings[k].Entry
	})
	for _, w := range warnings {
		res.Warn(w.Context, w.Entry, w.Message)
	}

	report.Files = int(atomic.LoadInt32(&p.written))
	report.Previews = int(previews)
	report.Stamped = int(stamped)
	report.Bytes = atomic.LoadInt64(&p.bytes)

	p.opts.OnProgress.Emit(progress.LevelSuccess, fmt.Sprintf("Published %d files to %s", report.Files, p.sink.Location()))
	return report, nil
}

func (p *Publisher) publishOne(ctx context.Context, j job, warn func(job, string)) (stamped, previewed bool, err error) {
	data, err := fs.ReadFile(p.src, j.file.Source)
	if err != nil {
		return false, false, fmt.Errorf("read %s: %w", j.file.Source, err)
	}

	if p.opts.StampAudio && j.part != nil && j.file.Extension == "mp3" {
		out, serr := p.tagger.Stamp(data, audio.PartInfo{
			Song:        j.song.Title,
			Arrangement: j.arr.DisplayName(),
			Composer:    j.song.Composer,
			Part:        j.part.Name,
			Tags:        j.song.Tags,
		})
		if serr != nil {
			warn(j, fmt.Sprintf("%s: %v", MsgStampFailed, serr))
		} else {
			data = out
			stamped = true
		}
	}

	if err := p.sink.Put(ctx, j.key, data); err != nil {
		return false, false, fmt.Errorf("write %s: %w", j.key, err)
	}
	j.file.URL = j.key
	atomic.AddInt64(&p.bytes, int64(len(data)))
	atomic.AddInt32(&p.written, 1)
	p.opts.OnProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Published %s", j.key))

	if j.preview != "" {
		thumb, perr := p.images.Preview(ctx, data, p.opts.PreviewMaxSize)
		if perr != nil {
			if ctx.Err() != nil {
				return stamped, false, ctx.Err()
			}
			warn(j, fmt.Sprintf("%s: %v", MsgPreviewFailed, perr))
			return stamped, false, nil
		}
		if err := p.sink.Put(ctx, j.preview, thumb); err != nil {
			return stamped, false, fmt.Errorf("write %s: %w", j.preview, err)
		}
		previewed = true
	}
	return stamped, previewed, nil
}

// plan resolves output keys, removes colliding references from the model and
// returns the jobs for the surviving files.
func (p *Publisher) plan(res *index.Results) ([]job, int) {
	claims := make(map[string]string)
	dropped := make(map[*model.CollectionFile]bool)
	previews := make(map[string]string)
	collisions := 0

	claim := func(key, source string) (string, bool) {
		folded := strings.ToLower(key)
		if owner, ok := claims[folded]; ok && owner != source {
			return owner, false
		}
		claims[folded] = source
		return "", true
	}

	for _, song := range res.Songs {
		song.EachFile(func(arr *model.Arrangement, _ *model.Part, f *model.CollectionFile) {
			if owner, ok := claim(f.Source, f.Source); !ok {
				dropped[f] = true
				collisions++
				p.collide(res, song, arr, f.Source, path.Base(f.Source), owner)
			}
		})
	}

	// Previews are claimed after every asset so that a real file always
	// takes precedence over a generated one.
	if p.opts.Previews {
		for _, song := range res.Songs {
			song.EachFile(func(arr *model.Arrangement, _ *model.Part, f *model.CollectionFile) {
				if dropped[f] || !ioutils.CanPreview(f.Extension) {
					return
				}
				pkey := PreviewKey(f.Source)
				if owner, ok := claim(pkey, f.Source); !ok {
					collisions++
					p.collide(res, song, arr, f.Source, path.Base(pkey), owner)
					return
				}
				previews[f.Source] = pkey
			})
		}
	}

	if len(dropped) > 0 {
		for _, song := range res.Songs {
			prune(song, dropped)
		}
	}

	seen := make(map[string]bool)
	var jobs []job
	for _, song := range res.Songs {
		song.EachFile(func(arr *model.Arrangement, part *model.Part, f *model.CollectionFile) {
			if seen[f.Source] {
				return
			}
			seen[f.Source] = true
			jobs = append(jobs, job{
				key:     f.Source,
				file:    f,
				song:    song,
				arr:     arr,
				part:    part,
				preview: previews[f.Source],
			})
		})
	}
	return jobs, collisions
}

func (p *Publisher) collide(res *index.Results, song *model.Song, arr *model.Arrangement, source, entry, owner string) {
	msg := fmt.Sprintf("%s %s", MsgCollision, owner)
	res.Warn(snapshot(song, arr, source), entry, msg)
	p.opts.OnProgress.Emit(progress.LevelWarning, fmt.Sprintf("%s/%s: %s", path.Dir(source), entry, msg))
}

// prune removes dropped references and parts left without files.
func prune(song *model.Song, dropped map[*model.CollectionFile]bool) {
	keep := func(files []model.CollectionFile) []model.CollectionFile {
		out := make([]model.CollectionFile, 0, len(files))
		for i := range files {
			if !dropped[&files[i]] {
				out = append(out, files[i])
			}
		}
		return out
	}

	for _, arr := range song.Arrangements {
		arr.Files = keep(arr.Files)
		parts := arr.Parts[:0]
		for _, part := range arr.Parts {
			part.Files = keep(part.Files)
			if len(part.Files) > 0 {
				parts = append(parts, part)
			}
		}
		arr.Parts = parts
	}
}

// PreviewKey returns the key of the preview stored beside key.
func PreviewKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + PreviewSuffix
}

func snapshot(song *model.Song, arr *model.Arrangement, source string) model.Snapshot {
	snap := model.Snapshot{Path: path.Dir(source)}
	if song != nil {
		snap.SongID = song.ID
		snap.Song = song.Title
	}
	if arr != nil {
		snap.ArrangementID = arr.ID
		snap.Arrangement = arr.DisplayName()
	}
	return snap
}
