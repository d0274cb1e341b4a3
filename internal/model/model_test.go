package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewSong_NormalizesTitleAndTags(t *testing.T) {
	song := NewSong(7, "  Tuba_Song ", []string{"Funk", "funk", "", "axé"})

	if song.Title != "tuba_song" {
		t.Errorf("Title = %q, want %q", song.Title, "tuba_song")
	}
	if len(song.Tags) != 2 || song.Tags[0] != "axé" || song.Tags[1] != "funk" {
		t.Errorf("Tags = %v, want [axé funk]", song.Tags)
	}
	if !song.HasTag("FUNK") {
		t.Error("HasTag(FUNK) should be true")
	}
	if song.HasTag("samba") {
		t.Error("HasTag(samba) should be false")
	}
}

func TestNewSong_NoTags(t *testing.T) {
	song := NewSong(1, "x", nil)
	if song.Tags == nil || len(song.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", song.Tags)
	}

	data, err := json.Marshal(song)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"tags":[]`) {
		t.Errorf("expected empty tags array in %s", data)
	}
}

func TestArrangement_Untitled(t *testing.T) {
	song := NewSong(1, "x", nil)
	named := NewArrangement(1, "x - arr")
	song.Arrangements = append(song.Arrangements, named)

	if song.Untitled() != nil {
		t.Fatal("Untitled() should be nil when only named arrangements exist")
	}

	untitled := NewArrangement(2, "")
	song.Arrangements = append(song.Arrangements, untitled)
	if song.Untitled() != untitled {
		t.Error("Untitled() should return the unnamed arrangement")
	}
	if untitled.DisplayName() != "" || named.DisplayName() != "x - arr" {
		t.Errorf("DisplayName mismatch: %q %q", untitled.DisplayName(), named.DisplayName())
	}

	data, err := json.Marshal(untitled)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"name"`) {
		t.Errorf("untitled arrangement should omit name: %s", data)
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"funk/song/part.SVG", "svg"},
		{"a.b.pdf", "pdf"},
		{"noext", ""},
		{".hidden", "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Extension(tt.input); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSong_EachFileAndVisit(t *testing.T) {
	song := NewSong(1, "s", nil)
	arr := NewArrangement(1, "a")
	arr.Files = append(arr.Files, NewCollectionFile("s/a/score.pdf"))
	arr.Parts = append(arr.Parts, &Part{
		Name:       "tuba",
		Instrument: InstrumentTuba,
		Files:      []CollectionFile{NewCollectionFile("s/a/tuba.svg")},
	})
	song.Arrangements = append(song.Arrangements, arr)

	var urls []string
	song.EachFile(func(_ *Arrangement, _ *Part, f *CollectionFile) {
		f.URL = "out/" + f.URL
		urls = append(urls, f.URL)
	})
	if len(urls) != 2 || arr.Parts[0].Files[0].URL != "out/s/a/tuba.svg" {
		t.Errorf("EachFile did not rewrite in place: %v", urls)
	}

	counts := map[string]int{}
	song.Visit(func(e Entity) {
		switch e.(type) {
		case *Song:
			counts["song"]++
		case *Arrangement:
			counts["arrangement"]++
		case *Part:
			counts["part"]++
		case *CollectionFile:
			counts["file"]++
		}
	})
	if counts["song"] != 1 || counts["arrangement"] != 1 || counts["part"] != 1 || counts["file"] != 2 {
		t.Errorf("Visit counts = %v", counts)
	}
}

func TestInstrument_Valid(t *testing.T) {
	if !InstrumentTrompetePirata.Valid() {
		t.Error("trompete pirata should be valid")
	}
	if Instrument("kazoo").Valid() {
		t.Error("kazoo should not be valid")
	}
	if Instrument("").Valid() {
		t.Error("empty instrument should not be valid")
	}
}
