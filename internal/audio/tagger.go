package audio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the archive.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds the action for each ID3 field the Tagger writes.
type TagConfig struct {
	// Title controls the TIT2 frame (song title).
	Title TagEditAction

	// Album controls the TALB frame (arrangement name).
	Album TagEditAction

	// Artist controls the TPE1 frame (composer).
	Artist TagEditAction

	// Part controls the TIT3 frame (part name, e.g. "trompete pirata pedro").
	Part TagEditAction

	// Genre controls the TCON frame (song tags joined with ", ").
	Genre TagEditAction
}

// DefaultTagConfig returns a configuration modifying every field.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Title:  TagModify,
		Album:  TagModify,
		Artist: TagModify,
		Part:   TagModify,
		Genre:  TagModify,
	}
}

// PartInfo is the archive metadata written into an audio part.
type PartInfo struct {
	Song        string
	Arrangement string
	Composer    string
	Part        string
	Tags        []string
}

// Tagger writes archive metadata into the ID3v2 tag of MP3 parts.
//
// Tagger works on in-memory bytes so that it can run before the asset is
// handed to any sink, local or remote:
//
//	tagger := NewTagger(DefaultTagConfig())
//	stamped, err := tagger.Stamp(mp3Bytes, audio.PartInfo{Song: "tuba_song", Part: "tuba"})
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Stamp returns a copy of data whose ID3v2 tag carries info.
//
// Existing frames are preserved unless the configuration overrides them; any
// previous ID3v2 tag is replaced, and the audio frames are kept byte for byte.
func (t *Tagger) Stamp(data []byte, info PartInfo) ([]byte, error) {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID3 tag: %w", err)
	}
	defer tag.Close()

	t.updateStringTags(tag, info)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write ID3 tag: %w", err)
	}
	buf.Write(data[tagSize(data):])
	return buf.Bytes(), nil
}

// updateStringTags updates text frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, info PartInfo) {
	setText(tag, "TIT2", t.config.Title, info.Song)
	setText(tag, "TALB", t.config.Album, info.Arrangement)
	setText(tag, "TPE1", t.config.Artist, info.Composer)
	setText(tag, "TIT3", t.config.Part, info.Part)
	setText(tag, "TCON", t.config.Genre, strings.Join(info.Tags, ", "))
}

func setText(tag *id3v2.Tag, id string, action TagEditAction, value string) {
	switch action {
	case TagEmpty:
		tag.DeleteFrames(id)
	case TagModify:
		if value == "" {
			return
		}
		tag.DeleteFrames(id)
		tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
}

// tagSize returns the length of a leading ID3v2 tag, header and footer
// included, or 0 when data does not start with one.
func tagSize(data []byte) int {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0
	}
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	total := 10 + size
	if data[5]&0x10 != 0 {
		total += 10
	}
	if total > len(data) {
		return len(data)
	}
	return total
}
