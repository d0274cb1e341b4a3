package schema

import (
	"path"
	"strings"
)

// FormatKeys are folder names that group files by format instead of naming
// an arrangement, e.g. "svg/" or "pdf/".
var FormatKeys = []string{"svg", "pdf", "png", "jpg", "jpeg", "mp3", "midi", "mid", "mscz"}

// MetadataFiles are the accepted per-song metadata file names.
var MetadataFiles = []string{"meta.yaml", "meta.yml"}

// arrangementFileExtensions mark sources and sequencer files that always
// describe the whole arrangement.
var arrangementFileExtensions = []string{"mscz", "mscx", "mid", "midi"}

// arrangementFileWords mark full-score artifacts when found in a file stem.
var arrangementFileWords = []string{"score", "grade", "partitura", "full"}

// IsFormatKey reports whether name is a format folder name.
func IsFormatKey(name string) bool {
	return containsFold(FormatKeys, name)
}

// IsMetadataFile reports whether name is a per-song metadata file.
func IsMetadataFile(name string) bool {
	return containsFold(MetadataFiles, name)
}

// IsArrangementFile reports whether a file describes a whole arrangement
// rather than one instrument part.
func IsArrangementFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if containsFold(arrangementFileExtensions, ext) {
		return true
	}
	stem := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	for _, word := range strings.Fields(stem) {
		if containsFold(arrangementFileWords, word) {
			return true
		}
	}
	return false
}

// formatContent is the level inside a format folder.
func formatContent() []Node {
	return []Node{
		{Kind: KindFile, Class: ClassArrangementFile, Test: IsArrangementFile},
		{Kind: KindFile, Class: ClassPartFile},
	}
}

// arrangementContent is the level inside a named arrangement folder.
func arrangementContent() []Node {
	return []Node{
		{Kind: KindDirectory, Class: ClassUntitledArrangement, Test: IsFormatKey, Children: formatContent()},
		{Kind: KindFile, Class: ClassArrangementFile, Test: IsArrangementFile},
		{Kind: KindFile, Class: ClassPartFile},
	}
}

// songContent is the level directly below a song folder.
func songContent() []Node {
	return []Node{
		{Kind: KindFile, Class: ClassSongMetadata, Test: IsMetadataFile},
		{Kind: KindDirectory, Class: ClassUntitledArrangement, Test: IsFormatKey, Children: formatContent()},
		{Kind: KindDirectory, Class: ClassArrangement, Children: arrangementContent()},
		{Kind: KindFile, Class: ClassUntitledArrangementFile, Test: IsArrangementFile},
		{Kind: KindFile, Class: ClassUntitledArrangementFile},
	}
}

// songLevel lists the songs of one tag, or of the whole archive when untagged.
func songLevel() []Node {
	return []Node{
		{Kind: KindDirectory, Class: ClassSong, Children: songContent()},
	}
}

// Default returns the registry for a tagged archive:
//
//	<tag>/<song>/{meta.yaml | <format>/ | <arrangement>/ | loose files}
func Default() []Node {
	return []Node{
		{Kind: KindDirectory, Class: ClassTag, Children: songLevel()},
	}
}

// Untagged returns the registry for an archive whose root lists songs directly.
func Untagged() []Node {
	return songLevel()
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
