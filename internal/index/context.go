package index

import (
	"path"

	"github.com/handiism/scorebook/internal/model"
)

// Context is the parsing state inherited by a subtree.
//
// Context is passed by value. Each branch replaces Song and Arrangement on its
// own copy, so siblings never see each other's pointer updates, while the
// entities pointed to are owned by Results and mutated in place.
type Context struct {
	// Path is the slash-separated input-relative path of the directory
	// currently being walked. The archive root is ".".
	Path string

	// Tags is the active tag set. It is replaced, never appended to in place.
	Tags []string

	Song        *model.Song
	Arrangement *model.Arrangement
}

// RootContext returns the context for the archive root.
func RootContext() Context {
	return Context{Path: ".", Tags: []string{}}
}

// Child returns the input-relative path of entry name in the current directory.
func (c Context) Child(name string) string {
	return path.Join(c.Path, name)
}

// WithTag returns a copy with tag as the only active tag.
func (c Context) WithTag(tag string) Context {
	c.Tags = []string{tag}
	return c
}

// WithSong returns a copy pointing at song with no active arrangement.
func (c Context) WithSong(song *model.Song) Context {
	c.Song = song
	c.Arrangement = nil
	return c
}

// WithArrangement returns a copy pointing at arr.
func (c Context) WithArrangement(arr *model.Arrangement) Context {
	c.Arrangement = arr
	return c
}

// SongTitle returns the active song title, or "" when no song is active.
func (c Context) SongTitle() string {
	if c.Song == nil {
		return ""
	}
	return c.Song.Title
}

// Snapshot captures the context for a warning.
func (c Context) Snapshot() model.Snapshot {
	snap := model.Snapshot{Path: c.Path}
	if c.Song != nil {
		snap.SongID = c.Song.ID
		snap.Song = c.Song.Title
	}
	if c.Arrangement != nil {
		snap.ArrangementID = c.Arrangement.ID
		snap.Arrangement = c.Arrangement.DisplayName()
	}
	return snap
}
