package model

import (
	"path"
	"sort"
	"strings"
)

// Song represents a canonical musical work found in the archive.
//
// A Song owns its arrangements. Tags are the style labels inherited from the
// enclosing tag directory and are kept sorted so that documents are stable.
type Song struct {
	// ID is unique within a single indexing run only.
	ID int `json:"id"`

	// Title is the lower-cased song directory name.
	Title string `json:"title"`

	// Composer is filled from per-song metadata when present.
	Composer string `json:"composer"`

	// Sub is a free-text subtitle filled from per-song metadata.
	Sub string `json:"sub"`

	// Tags holds the style labels applied to the whole song.
	Tags []string `json:"tags"`

	// Arrangements lists every arrangement in discovery order.
	Arrangements []*Arrangement `json:"arrangements"`
}

// NewSong creates a Song with a normalised title and a sorted copy of tags.
func NewSong(id int, title string, tags []string) *Song {
	return &Song{
		ID:           id,
		Title:        strings.ToLower(strings.TrimSpace(title)),
		Tags:         normalizeTags(tags),
		Arrangements: []*Arrangement{},
	}
}

// HasTag reports whether the song carries the given tag.
func (s *Song) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	i := sort.SearchStrings(s.Tags, tag)
	return i < len(s.Tags) && s.Tags[i] == tag
}

// Untitled returns the song's unnamed arrangement, or nil when none exists.
func (s *Song) Untitled() *Arrangement {
	for _, arr := range s.Arrangements {
		if arr.Name == nil {
			return arr
		}
	}
	return nil
}

// EachFile calls fn for every file reference held by the song, arrangement
// files first and then part files, in model order.
func (s *Song) EachFile(fn func(arr *Arrangement, part *Part, f *CollectionFile)) {
	for _, arr := range s.Arrangements {
		for i := range arr.Files {
			fn(arr, nil, &arr.Files[i])
		}
		for _, part := range arr.Parts {
			for i := range part.Files {
				fn(arr, part, &part.Files[i])
			}
		}
	}
}

// Arrangement is a specific instrumentation or performance version of a song.
//
// Name is nil for untitled arrangements, which are implied by the file layout
// rather than declared by a named folder.
type Arrangement struct {
	ID    int              `json:"id"`
	Name  *string          `json:"name,omitempty"`
	Files []CollectionFile `json:"files"`
	Parts []*Part          `json:"parts"`
}

// NewArrangement creates an Arrangement. Pass an empty name for an untitled one.
func NewArrangement(id int, name string) *Arrangement {
	arr := &Arrangement{
		ID:    id,
		Files: []CollectionFile{},
		Parts: []*Part{},
	}
	if name != "" {
		arr.Name = &name
	}
	return arr
}

// DisplayName returns the arrangement name, or an empty string when untitled.
func (a *Arrangement) DisplayName() string {
	if a == nil || a.Name == nil {
		return ""
	}
	return *a.Name
}

// FindPart returns the part with the given name and instrument, if any.
func (a *Arrangement) FindPart(name string, instrument Instrument) *Part {
	for _, p := range a.Parts {
		if p.Name == name && p.Instrument == instrument {
			return p
		}
	}
	return nil
}

// Part is the material for one instrument within an arrangement.
type Part struct {
	Name       string           `json:"name"`
	Instrument Instrument       `json:"instrument"`
	Files      []CollectionFile `json:"files"`
}

// CollectionFile is a published asset reference.
//
// URL starts out as the input-relative path of the source file and is
// rewritten to the output-relative path once the asset is published.
type CollectionFile struct {
	URL       string `json:"url"`
	Extension string `json:"extension"`

	// Source is the slash-separated input-relative path. It is not serialized.
	Source string `json:"-"`
}

// NewCollectionFile wraps an input-relative path as a file reference.
func NewCollectionFile(source string) CollectionFile {
	return CollectionFile{
		URL:       source,
		Extension: Extension(source),
		Source:    source,
	}
}

// Extension returns the lower-cased extension of name without the leading dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Entity is the closed set of model values: *Song, *Arrangement, *Part and
// *CollectionFile.
type Entity interface {
	entity()
}

func (*Song) entity()           {}
func (*Arrangement) entity()    {}
func (*Part) entity()           {}
func (*CollectionFile) entity() {}

// Visit walks the song depth-first, calling fn for the song itself and every
// arrangement, part and file below it.
func (s *Song) Visit(fn func(Entity)) {
	fn(s)
	for _, arr := range s.Arrangements {
		fn(arr)
		for i := range arr.Files {
			fn(&arr.Files[i])
		}
		for _, part := range arr.Parts {
			fn(part)
			for i := range part.Files {
				fn(&part.Files[i])
			}
		}
	}
}

func normalizeTags(tags []string) []string {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
