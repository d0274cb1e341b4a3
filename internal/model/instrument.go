package model

// Instrument is a canonical instrument tag from a closed set.
//
// The zero value means the instrument is unknown.
type Instrument string

const (
	InstrumentAgogo          Instrument = "agogo"
	InstrumentBombardino     Instrument = "bombardino"
	InstrumentBumbo          Instrument = "bumbo"
	InstrumentCaixa          Instrument = "caixa"
	InstrumentClarinete      Instrument = "clarinete"
	InstrumentFlauta         Instrument = "flauta"
	InstrumentFlautim        Instrument = "flautim"
	InstrumentGlockenspiel   Instrument = "glockenspiel"
	InstrumentPrato          Instrument = "prato"
	InstrumentRepinique      Instrument = "repinique"
	InstrumentSaxAlto        Instrument = "sax alto"
	InstrumentSaxBaritono    Instrument = "sax baritono"
	InstrumentSaxSoprano     Instrument = "sax soprano"
	InstrumentSaxTenor       Instrument = "sax tenor"
	InstrumentSurdo          Instrument = "surdo"
	InstrumentTamborim       Instrument = "tamborim"
	InstrumentTrombone       Instrument = "trombone"
	InstrumentTrombonePirata Instrument = "trombone pirata"
	InstrumentTrompa         Instrument = "trompa"
	InstrumentTrompete       Instrument = "trompete"
	InstrumentTrompetePirata Instrument = "trompete pirata"
	InstrumentTuba           Instrument = "tuba"
	InstrumentVoz            Instrument = "voz"
)

// Instruments returns every canonical instrument in alphabetical order.
func Instruments() []Instrument {
	return []Instrument{
		InstrumentAgogo,
		InstrumentBombardino,
		InstrumentBumbo,
		InstrumentCaixa,
		InstrumentClarinete,
		InstrumentFlauta,
		InstrumentFlautim,
		InstrumentGlockenspiel,
		InstrumentPrato,
		InstrumentRepinique,
		InstrumentSaxAlto,
		InstrumentSaxBaritono,
		InstrumentSaxSoprano,
		InstrumentSaxTenor,
		InstrumentSurdo,
		InstrumentTamborim,
		InstrumentTrombone,
		InstrumentTrombonePirata,
		InstrumentTrompa,
		InstrumentTrompete,
		InstrumentTrompetePirata,
		InstrumentTuba,
		InstrumentVoz,
	}
}

// Valid reports whether i belongs to the closed instrument set.
func (i Instrument) Valid() bool {
	for _, known := range Instruments() {
		if i == known {
			return true
		}
	}
	return false
}
