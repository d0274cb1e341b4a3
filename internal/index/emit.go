package index

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/handiism/scorebook/internal/instrument"
	"github.com/handiism/scorebook/internal/model"
	"github.com/handiism/scorebook/internal/schema"
)

// Warning messages recorded by the walker and emitters.
const (
	MsgNoMatch           = "no node matches entry"
	MsgNotDirectory      = "entry is not a directory"
	MsgNoSong            = "entry requires an enclosing song"
	MsgNoArrangement     = "entry requires an enclosing arrangement"
	MsgUnknownInstrument = "cannot resolve instrument"
	MsgExtensionRejected = "extension is not allowed for parts"
	MsgBadMetadata       = "invalid song metadata"
	MsgUnreadable        = "cannot read directory"
	MsgUnreadableFile    = "cannot read file"
)

// emit runs the emitter for class on entry name and returns the context for
// the entry's subtree. Only filesystem failures are returned as errors.
func (w *Walker) emit(class schema.Class, name string, c Context) (Context, error) {
	switch class {
	case schema.ClassTag:
		return w.emitTag(name, c), nil
	case schema.ClassSong:
		return w.emitSong(name, c), nil
	case schema.ClassArrangement:
		return w.emitArrangement(name, c), nil
	case schema.ClassPartFile:
		return w.emitPartFile(name, c), nil
	case schema.ClassArrangementFile:
		return w.emitArrangementFile(name, c), nil
	case schema.ClassUntitledArrangement:
		return w.emitUntitledArrangement(name, c), nil
	case schema.ClassUntitledArrangementFile:
		return w.emitUntitledArrangementFile(name, c), nil
	case schema.ClassSongMetadata:
		return w.emitSongMetadata(name, c)
	default:
		panic(fmt.Sprintf("index: unhandled class %v", class))
	}
}

func (w *Walker) emitTag(name string, c Context) Context {
	return c.WithTag(strings.ToLower(name))
}

func (w *Walker) emitSong(name string, c Context) Context {
	song := w.results.NewSong(name, c.Tags)
	w.verbose(fmt.Sprintf("Song #%d: %s", song.ID, song.Title))
	return c.WithSong(song)
}

func (w *Walker) emitArrangement(name string, c Context) Context {
	if c.Song == nil {
		w.warn(c, name, MsgNoSong)
		return c
	}
	arr := w.results.NewArrangement(c.Song, name)
	w.verbose(fmt.Sprintf("Arrangement #%d: %s", arr.ID, name))
	return c.WithArrangement(arr)
}

// untitled returns the arrangement a format folder or loose file belongs to:
// the active one, else the song's existing unnamed one, else a new one.
func (w *Walker) untitled(c Context) *model.Arrangement {
	if c.Arrangement != nil {
		return c.Arrangement
	}
	if arr := c.Song.Untitled(); arr != nil {
		return arr
	}
	arr := w.results.NewArrangement(c.Song, "")
	w.verbose(fmt.Sprintf("Untitled arrangement #%d for %s", arr.ID, c.Song.Title))
	return arr
}

func (w *Walker) emitUntitledArrangement(name string, c Context) Context {
	if c.Song == nil {
		w.warn(c, name, MsgNoSong)
		return c
	}
	return c.WithArrangement(w.untitled(c))
}

// emitUntitledArrangementFile files a loose song-level entry under the
// song's unnamed arrangement. Whole-arrangement artifacts are kept as
// arrangement files; anything else must pass the same checks as a part.
func (w *Walker) emitUntitledArrangementFile(name string, c Context) Context {
	if c.Song == nil {
		w.warn(c, name, MsgNoSong)
		return c
	}
	if schema.IsArrangementFile(name) {
		arr := w.untitled(c)
		arr.Files = append(arr.Files, model.NewCollectionFile(c.Child(name)))
		return c
	}
	ext := model.Extension(name)
	if !w.extensionAllowed(ext) {
		w.warn(c, name, fmt.Sprintf("%s: %q", MsgExtensionRejected, ext))
		return c
	}
	inst, ok := w.resolver.Resolve(name, c.SongTitle())
	if !ok {
		w.warn(c, name, MsgUnknownInstrument)
		return c
	}
	w.attachPart(w.untitled(c), name, inst, c)
	return c
}

func (w *Walker) emitPartFile(name string, c Context) Context {
	if c.Arrangement == nil {
		w.warn(c, name, MsgNoArrangement)
		return c
	}
	ext := model.Extension(name)
	if !w.extensionAllowed(ext) {
		w.warn(c, name, fmt.Sprintf("%s: %q", MsgExtensionRejected, ext))
		return c
	}
	inst, ok := w.resolver.Resolve(name, c.SongTitle())
	if !ok {
		w.warn(c, name, MsgUnknownInstrument)
		return c
	}
	w.attachPart(c.Arrangement, name, inst, c)
	return c
}

// attachPart wraps the file in a new Part, or extends an existing part of the
// same name and instrument when parts are merged.
func (w *Walker) attachPart(arr *model.Arrangement, name string, inst model.Instrument, c Context) {
	file := model.NewCollectionFile(c.Child(name))
	partName := instrument.Stem(name, c.SongTitle())
	if partName == "" {
		partName = string(inst)
	}

	if w.opts.MergeParts {
		if part := arr.FindPart(partName, inst); part != nil {
			part.Files = append(part.Files, file)
			return
		}
	}
	arr.Parts = append(arr.Parts, &model.Part{
		Name:       partName,
		Instrument: inst,
		Files:      []model.CollectionFile{file},
	})
}

func (w *Walker) emitArrangementFile(name string, c Context) Context {
	if c.Arrangement == nil {
		w.warn(c, name, MsgNoArrangement)
		return c
	}
	c.Arrangement.Files = append(c.Arrangement.Files, model.NewCollectionFile(c.Child(name)))
	return c
}

func (w *Walker) emitSongMetadata(name string, c Context) (Context, error) {
	if c.Song == nil {
		w.warn(c, name, MsgNoSong)
		return c, nil
	}
	data, err := fs.ReadFile(w.fsys, c.Child(name))
	if err != nil {
		if w.opts.Policy == PolicyContinue {
			w.warn(c, name, fmt.Sprintf("%s: %v", MsgUnreadableFile, err))
			return c, nil
		}
		return c, fmt.Errorf("read song metadata %s: %w", c.Child(name), err)
	}
	meta, err := ParseSongMetadata(data)
	if err != nil {
		w.warn(c, name, fmt.Sprintf("%s: %v", MsgBadMetadata, err))
		return c, nil
	}
	meta.Apply(c.Song)
	return c, nil
}
