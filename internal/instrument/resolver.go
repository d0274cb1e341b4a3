package instrument

import (
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/handiism/scorebook/internal/model"
)

// knownExtensions are dropped from a fragment before matching.
var knownExtensions = map[string]struct{}{
	"svg": {}, "pdf": {}, "png": {}, "jpg": {}, "jpeg": {},
	"mp3": {}, "ogg": {}, "wav": {}, "mid": {}, "midi": {},
	"mscz": {}, "mscx": {}, "musicxml": {}, "xml": {},
}

// Resolve maps a filename fragment to a canonical instrument.
//
// Separators are normalised, a known extension is dropped and every alias is
// tested on word boundaries. When several aliases match, the one with the most
// words wins, so "trompete_pirata_pedro.svg" resolves to trompete pirata.
func Resolve(fragment string) (model.Instrument, bool) {
	return resolveWords(Stem(fragment, ""))
}

// ResolveInSong is Resolve with the song title stripped from the fragment
// first, so a title containing an instrument word does not match.
func ResolveInSong(fragment, title string) (model.Instrument, bool) {
	return resolveWords(Stem(fragment, title))
}

// Stem returns the normalised words of fragment with a known extension and
// the normalised title removed. It is also used as the Part name.
func Stem(fragment, title string) string {
	if ext := strings.ToLower(strings.TrimPrefix(path.Ext(fragment), ".")); ext != "" {
		if _, ok := knownExtensions[ext]; ok {
			fragment = strings.TrimSuffix(fragment, path.Ext(fragment))
		}
	}

	words := normalize(fragment)
	if t := normalize(title); t != "" {
		padded := " " + words + " "
		padded = strings.ReplaceAll(padded, " "+t+" ", " ")
		words = strings.Join(strings.Fields(padded), " ")
	}
	return words
}

func resolveWords(words string) (model.Instrument, bool) {
	if words == "" {
		return "", false
	}
	padded := " " + words + " "

	var found model.Instrument
	for _, a := range aliases {
		if strings.Contains(padded, " "+a.words+" ") {
			found = a.instrument
		}
	}
	return found, found != ""
}

// normalize lower-cases s, turns '_', '-' and '.' into spaces and collapses
// runs of whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

type cacheKey struct {
	fragment string
	title    string
}

type resolution struct {
	instrument model.Instrument
	ok         bool
}

// Resolver memoises ResolveInSong. A single Resolver may be shared by
// concurrent callers.
//
// Example:
//
//	r, err := instrument.NewResolver(4096)
//	inst, ok := r.Resolve("tuba_song-tuba.svg", "tuba_song")
//	// inst == model.InstrumentTuba, ok == true
type Resolver struct {
	cache *lru.Cache[cacheKey, resolution]
}

// DefaultCacheSize is used when NewResolver is given a non-positive size.
const DefaultCacheSize = 4096

// NewResolver creates a Resolver holding at most size memoised results.
func NewResolver(size int) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, resolution](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{cache: cache}, nil
}

// Resolve returns the instrument for fragment within the song titled title.
func (r *Resolver) Resolve(fragment, title string) (model.Instrument, bool) {
	key := cacheKey{fragment: fragment, title: title}
	if res, ok := r.cache.Get(key); ok {
		return res.instrument, res.ok
	}
	inst, ok := ResolveInSong(fragment, title)
	r.cache.Add(key, resolution{instrument: inst, ok: ok})
	return inst, ok
}

// Len returns the number of memoised results.
func (r *Resolver) Len() int {
	return r.cache.Len()
}
