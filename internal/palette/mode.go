package palette

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode names a harmony rule. Values are the labels shown in the form.
type Mode string

const (
	ModeAnalogous     Mode = "Análoga"
	ModeComplementary Mode = "Complementar"
	ModeTriadic       Mode = "Triádica"
)

// Modes lists the harmony modes in display order.
var Modes = []Mode{ModeAnalogous, ModeComplementary, ModeTriadic}

var modeAliases = map[string]Mode{
	"analoga":        ModeAnalogous,
	"analogo":        ModeAnalogous,
	"analogous":      ModeAnalogous,
	"complementar":   ModeComplementary,
	"complementaria": ModeComplementary,
	"complementary":  ModeComplementary,
	"triadica":       ModeTriadic,
	"triadic":        ModeTriadic,
}

// ParseMode maps a label or alias to a Mode, ignoring case and accents.
// Anything unrecognized is Analogous.
func ParseMode(s string) Mode {
	if m, ok := modeAliases[foldLabel(s)]; ok {
		return m
	}
	return ModeAnalogous
}

// Offsets returns the hue offsets, in degrees, applied to the base color.
func (m Mode) Offsets() []float64 {
	switch ParseMode(string(m)) {
	case ModeComplementary:
		return []float64{180}
	case ModeTriadic:
		return []float64{120, -120}
	default:
		return []float64{20, -20}
	}
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
