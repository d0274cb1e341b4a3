// Package model defines the domain types produced by the scorebook indexer.
//
// # Songs
//
// A Song is a musical work discovered as a directory in the archive. It owns
// an ordered list of arrangements:
//
//	song := model.NewSong(1, "Tuba_Song", []string{"funk"})
//	fmt.Println(song.Title) // "tuba_song"
//
// # Arrangements and Parts
//
// An Arrangement is one instrumentation of a song. It holds whole-arrangement
// files (full scores, sources) and per-instrument Parts:
//
//	arr := model.NewArrangement(1, "tuba_song - arr")
//	arr.Parts = append(arr.Parts, &model.Part{
//	    Name:       "tuba",
//	    Instrument: model.InstrumentTuba,
//	    Files:      []model.CollectionFile{model.NewCollectionFile("funk/tuba_song/a.svg")},
//	})
//
// Untitled arrangements have a nil Name. They are implied by the layout when a
// song has loose files or format folders instead of a named arrangement folder.
//
// # Warnings
//
// Warning records a non-fatal anomaly together with a Snapshot of the
// traversal state at the time it was detected.
package model
