package schema

// Kind is the filesystem kind a Node accepts.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns "file" or "directory".
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Class selects the emitter that turns a matched entry into model entities.
type Class int

const (
	// ClassTag sets the active style tag for a subtree.
	ClassTag Class = iota

	// ClassSong creates a Song.
	ClassSong

	// ClassArrangement creates a named Arrangement under the active Song.
	ClassArrangement

	// ClassPartFile wraps a file as a single-file Part of the active Arrangement.
	ClassPartFile

	// ClassArrangementFile attaches a whole-arrangement file to the active Arrangement.
	ClassArrangementFile

	// ClassUntitledArrangement reuses or lazily creates an unnamed Arrangement
	// for a format-keyed folder.
	ClassUntitledArrangement

	// ClassUntitledArrangementFile attaches a loose song-level file to the
	// song's unnamed Arrangement.
	ClassUntitledArrangementFile

	// ClassSongMetadata reads per-song metadata into the active Song.
	ClassSongMetadata
)

// Classes returns every Class in declaration order.
func Classes() []Class {
	return []Class{
		ClassTag,
		ClassSong,
		ClassArrangement,
		ClassPartFile,
		ClassArrangementFile,
		ClassUntitledArrangement,
		ClassUntitledArrangementFile,
		ClassSongMetadata,
	}
}

// String returns the class name used in diagnostics.
func (c Class) String() string {
	switch c {
	case ClassTag:
		return "tag"
	case ClassSong:
		return "song"
	case ClassArrangement:
		return "arrangement"
	case ClassPartFile:
		return "part-file"
	case ClassArrangementFile:
		return "arrangement-file"
	case ClassUntitledArrangement:
		return "untitled-arrangement"
	case ClassUntitledArrangementFile:
		return "untitled-arrangement-file"
	case ClassSongMetadata:
		return "song-metadata"
	default:
		return "unknown"
	}
}

// Node describes one allowed entry shape at a tree level.
//
// Nodes are kept in ordered lists; the first Node whose Kind matches the
// entry and whose Test accepts the name wins. A nil Test accepts any name.
type Node struct {
	Kind     Kind
	Class    Class
	Test     func(name string) bool
	Children []Node
}

// Accepts reports whether the node matches an entry of the given name and kind.
func (n Node) Accepts(name string, isDir bool) bool {
	if (n.Kind == KindDirectory) != isDir {
		return false
	}
	return n.Test == nil || n.Test(name)
}

// Match returns the first node in nodes accepting the entry.
func Match(nodes []Node, name string, isDir bool) (Node, bool) {
	for _, n := range nodes {
		if n.Accepts(name, isDir) {
			return n, true
		}
	}
	return Node{}, false
}
