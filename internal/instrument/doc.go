// Package instrument resolves free-form filename fragments to canonical
// instrument tags.
//
// Archive files name their instrument in many ways: "tpt", "trumpet",
// "trompete", "Trompete_Pirata". Resolve normalises the fragment and matches
// it against a static alias table:
//
//	inst, ok := instrument.Resolve("trompete_pirata_pedro.svg")
//	// inst == model.InstrumentTrompetePirata
//
// # Overlapping Aliases
//
// The table is ordered by ascending word count and the last matching alias
// wins, so longer aliases beat the shorter ones they contain.
//
// # Song Titles
//
// Song titles often contain instrument words ("tuba_song"). ResolveInSong
// strips the title before matching:
//
//	inst, ok := instrument.ResolveInSong("tuba_song-caixa.pdf", "tuba_song")
//	// inst == model.InstrumentCaixa
//
// Resolver wraps ResolveInSong with an LRU cache for large archives where the
// same fragments repeat across arrangements.
package instrument
