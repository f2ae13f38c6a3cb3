// Package palette derives small color harmonies from a base color. Colors are
// 8-bit RGB triples; their HSL form is computed on demand and hue rotation
// happens in HSL space before converting back to the 8-bit grid.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"promptlab/internal/domain"
)

// ErrInvalidHex is returned by ParseHex for anything other than six hex digits.
var ErrInvalidHex = fmt.Errorf("palette: %w: want #rrggbb", domain.ErrInvalidColor)

// Color is an immutable 8-bit RGB value.
type Color struct {
	R, G, B uint8
}

// HSL is the cylindrical form of a Color. Hue is in [0,360), saturation and
// lightness in [0,1].
type HSL struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// Palette is an ordered set of colors derived from one base color.
type Palette []Color

// ParseHex accepts "#rrggbb" or "rrggbb" in either case.
func ParseHex(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	for _, r := range raw {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(raw))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return fromColorful(c), nil
}

// MustParseHex is ParseHex for literals known to be valid.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders the color as lowercase "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText lets colors travel as hex strings in JSON and TOML.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses hex text.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// HSL converts the color to hue, saturation and lightness. The hue is not
// rounded so that FromHSL(c.HSL()) == c holds for every 8-bit color.
func (c Color) HSL() HSL {
	h, s, l := c.colorful().Hsl()
	return HSL{Hue: wrapHue(h), Saturation: s, Lightness: l}
}

// RoundedHue is the hue rounded to the nearest whole degree, for display.
func (h HSL) RoundedHue() int {
	return int(math.Round(h.Hue)) % 360
}

// RGBToHSL is the free-function form of Color.HSL.
func RGBToHSL(c Color) HSL {
	return c.HSL()
}

// FromHSL converts back to the 8-bit grid, rounding every channel to the
// nearest value.
func FromHSL(v HSL) Color {
	return fromColorful(colorful.Hsl(wrapHue(v.Hue), clamp01(v.Saturation), clamp01(v.Lightness)))
}

// HSLToHex converts hue, saturation and lightness straight to "#rrggbb".
func HSLToHex(hue, saturation, lightness float64) string {
	return FromHSL(HSL{Hue: hue, Saturation: saturation, Lightness: lightness}).Hex()
}

// RotateHue shifts the hue by degrees. The offset is reduced into [0,360)
// before it is added, so d and d+360 land on the same hue bit for bit.
func RotateHue(c Color, degrees float64) Color {
	v := c.HSL()
	v.Hue = wrapHue(v.Hue + wrapHue(degrees))
	return FromHSL(v)
}

// Build derives the palette for mode. The base color always comes first.
func Build(base Color, mode Mode) Palette {
	offsets := mode.Offsets()
	out := make(Palette, 0, len(offsets)+1)
	out = append(out, base)
	for _, offset := range offsets {
		out = append(out, RotateHue(base, offset))
	}
	return out
}

// Hex lists the palette colors as hex strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
