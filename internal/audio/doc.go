// Package audio stamps archive metadata into published MP3 parts.
//
// Rehearsal recordings are often shared straight from the published tree, so
// each MP3 part carries its song, arrangement and part name in ID3v2 frames:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	stamped, err := tagger.Stamp(data, audio.PartInfo{
//	    Song:        "tuba_song",
//	    Arrangement: "tuba_song - arr",
//	    Part:        "tuba",
//	    Tags:        []string{"funk"},
//	})
//
// Frames written:
//   - TIT2 song title
//   - TALB arrangement name
//   - TPE1 composer
//   - TIT3 part name
//   - TCON song tags
package audio
