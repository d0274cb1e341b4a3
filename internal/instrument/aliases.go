package instrument

import (
	"sort"
	"strings"

	"github.com/handiism/scorebook/internal/model"
)

// alias maps one spoken or abbreviated form to a canonical instrument.
type alias struct {
	words      string
	instrument model.Instrument
	wordCount  int
}

var rawAliases = map[model.Instrument][]string{
	model.InstrumentAgogo:          {"agogo", "agogô"},
	model.InstrumentBombardino:     {"bombardino", "euphonium", "eufonio", "eufônio"},
	model.InstrumentBumbo:          {"bumbo", "zabumba", "bass drum"},
	model.InstrumentCaixa:          {"caixa", "snare", "caixa clara"},
	model.InstrumentClarinete:      {"clarinete", "clarineta", "clarinet"},
	model.InstrumentFlauta:         {"flauta", "flute"},
	model.InstrumentFlautim:        {"flautim", "piccolo"},
	model.InstrumentGlockenspiel:   {"glockenspiel", "glock", "lira"},
	model.InstrumentPrato:          {"prato", "pratos", "cymbals"},
	model.InstrumentRepinique:      {"repinique", "repique"},
	model.InstrumentSaxAlto:        {"alto", "sax alto", "alto sax", "saxofone alto"},
	model.InstrumentSaxBaritono:    {"sax baritono", "sax barítono", "sax bari", "bari sax", "baritone sax", "saxofone baritono"},
	model.InstrumentSaxSoprano:     {"sax soprano", "soprano sax", "saxofone soprano"},
	model.InstrumentSaxTenor:       {"tenor", "sax tenor", "tenor sax", "saxofone tenor"},
	model.InstrumentSurdo:          {"surdo", "surdos"},
	model.InstrumentTamborim:       {"tamborim"},
	model.InstrumentTrombone:       {"trombone", "trombones", "tbn"},
	model.InstrumentTrombonePirata: {"trombone pirata"},
	model.InstrumentTrompa:         {"trompa", "horn", "french horn"},
	model.InstrumentTrompete:       {"trompete", "trompetes", "trumpet", "tpt"},
	model.InstrumentTrompetePirata: {"trompete pirata", "trumpet pirata"},
	model.InstrumentTuba:           {"tuba", "sousafone", "sousaphone", "souza"},
	model.InstrumentVoz:            {"voz", "vozes", "vocal", "vocals", "voice"},
}

// aliases is sorted by ascending word count, then alphabetically, so that a
// scan keeping the last hit lets multi-word aliases override their subsets.
var aliases = buildAliases(rawAliases)

func buildAliases(raw map[model.Instrument][]string) []alias {
	var out []alias
	for inst, forms := range raw {
		for _, form := range forms {
			words := normalize(form)
			out = append(out, alias{
				words:      words,
				instrument: inst,
				wordCount:  len(strings.Fields(words)),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].wordCount != out[j].wordCount {
			return out[i].wordCount < out[j].wordCount
		}
		return out[i].words < out[j].words
	})
	return out
}
