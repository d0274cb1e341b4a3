package audio

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2"
)

var fakeAudio = []byte{0xff, 0xfb, 0x90, 0x64, 0x00, 0x00, 0x00, 0x00, 'a', 'u', 'd', 'i', 'o', 'd', 'a', 't', 'a'}

func readTag(t *testing.T, data []byte) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	return tag
}

func TestTagger_Stamp(t *testing.T) {
	tagger := NewTagger(nil)

	out, err := tagger.Stamp(fakeAudio, PartInfo{
		Song:        "tuba_song",
		Arrangement: "tuba_song - arr",
		Composer:    "Someone",
		Part:        "tuba",
		Tags:        []string{"funk"},
	})
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("ID3")) {
		t.Fatal("stamped data should start with an ID3 header")
	}
	if !bytes.HasSuffix(out, fakeAudio) {
		t.Error("audio frames must be preserved")
	}

	tag := readTag(t, out)
	if tag.Title() != "tuba_song" {
		t.Errorf("Title = %q, want %q", tag.Title(), "tuba_song")
	}
	if tag.Album() != "tuba_song - arr" {
		t.Errorf("Album = %q", tag.Album())
	}
	if tag.Artist() != "Someone" {
		t.Errorf("Artist = %q", tag.Artist())
	}
	if got := tag.GetTextFrame("TIT3").Text; got != "tuba" {
		t.Errorf("TIT3 = %q, want %q", got, "tuba")
	}
}

func TestTagger_StampReplacesPreviousTag(t *testing.T) {
	tagger := NewTagger(DefaultTagConfig())

	first, err := tagger.Stamp(fakeAudio, PartInfo{Song: "one", Part: "tuba"})
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	second, err := tagger.Stamp(first, PartInfo{Song: "two", Part: "tuba"})
	if err != nil {
		t.Fatalf("Stamp again: %v", err)
	}

	if bytes.Count(second, []byte("ID3")) != 1 {
		t.Error("restamping must not stack tags")
	}
	if !bytes.HasSuffix(second, fakeAudio) {
		t.Error("audio frames must be preserved")
	}
	if got := readTag(t, second).Title(); got != "two" {
		t.Errorf("Title = %q, want %q", got, "two")
	}
}

func TestTagSize(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"no tag", fakeAudio, 0},
		{"short", []byte("ID3"), 0},
		{"header only", []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5, 1, 2, 3, 4, 5, 6}, 15},
		{"footer", []byte{'I', 'D', '3', 4, 0, 0x10, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 20},
		{"truncated", []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 1, 0}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagSize(tt.data); got != tt.want {
				t.Errorf("tagSize() = %d, want %d", got, tt.want)
			}
		})
	}
}
