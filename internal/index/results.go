package index

import (
	"github.com/handiism/scorebook/internal/model"
)

// Results is the sink for one indexing run.
//
// Results owns every entity created during the run together with the id
// counters, so separate runs never share state. It is not safe for
// concurrent use.
type Results struct {
	Songs    []*model.Song
	Warnings []model.Warning

	songCounter        int
	arrangementCounter int
}

// NewResults creates an empty Results.
func NewResults() *Results {
	return &Results{
		Songs:    []*model.Song{},
		Warnings: []model.Warning{},
	}
}

// NewSong creates a Song with the next song id and appends it to Songs.
func (r *Results) NewSong(title string, tags []string) *model.Song {
	r.songCounter++
	song := model.NewSong(r.songCounter, title, tags)
	r.Songs = append(r.Songs, song)
	return song
}

// NewArrangement creates an Arrangement with the next arrangement id and
// appends it to song. An empty name creates an untitled arrangement.
func (r *Results) NewArrangement(song *model.Song, name string) *model.Arrangement {
	r.arrangementCounter++
	arr := model.NewArrangement(r.arrangementCounter, name)
	song.Arrangements = append(song.Arrangements, arr)
	return arr
}

// Warn records a warning and returns it.
func (r *Results) Warn(snap model.Snapshot, entry, message string) model.Warning {
	w := model.Warning{Context: snap, Entry: entry, Message: message}
	r.Warnings = append(r.Warnings, w)
	return w
}

// Stats summarises a run.
type Stats struct {
	Songs        int
	Arrangements int
	Parts        int
	Files        int
	Warnings     int
}

// Stats counts the entities held by r.
func (r *Results) Stats() Stats {
	s := Stats{Songs: len(r.Songs), Warnings: len(r.Warnings)}
	for _, song := range r.Songs {
		s.Arrangements += len(song.Arrangements)
		for _, arr := range song.Arrangements {
			s.Parts += len(arr.Parts)
		}
		song.EachFile(func(*model.Arrangement, *model.Part, *model.CollectionFile) {
			s.Files++
		})
	}
	return s
}

// FindSong returns the first song with the given title, if any.
func (r *Results) FindSong(title string) *model.Song {
	for _, s := range r.Songs {
		if s.Title == title {
			return s
		}
	}
	return nil
}
