package palette

import (
	"fmt"
	"math"
	"strings"
)

// Wheel defaults used by the form's color wheel.
const (
	WheelSteps      = 12
	WheelSaturation = 0.72
	WheelLightness  = 0.58
	WheelKnobRadius = 68
)

// WheelStop is one conic-gradient stop.
type WheelStop struct {
	Color   Color   `json:"color"`
	Percent float64 `json:"percent"`
}

// WheelStops spreads steps hues evenly around the wheel.
func WheelStops(steps int, saturation, lightness float64) []WheelStop {
	if steps <= 0 {
		return nil
	}
	stride := 360 / float64(steps)
	stops := make([]WheelStop, steps)
	for i := range stops {
		hue := float64(i) * stride
		stops[i] = WheelStop{
			Color:   FromHSL(HSL{Hue: hue, Saturation: saturation, Lightness: lightness}),
			Percent: hue / 360 * 100,
		}
	}
	return stops
}

// ConicGradient renders stops as a CSS conic-gradient.
func ConicGradient(stops []WheelStop) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = fmt.Sprintf("%s %s%%", s.Color.Hex(), formatPercent(s.Percent))
	}
	return "conic-gradient(" + strings.Join(parts, ", ") + ")"
}

// KnobOffset places the wheel knob for c relative to the wheel center. Hue 0
// sits at the top; y grows downwards.
func KnobOffset(c Color, radius float64) (x, y float64) {
	angle := (c.HSL().Hue - 90) * math.Pi / 180
	return math.Cos(angle) * radius, math.Sin(angle) * radius
}

// PickFromWheel returns the color under the point (x, y) relative to the
// wheel center, using the given saturation and lightness.
func PickFromWheel(x, y, saturation, lightness float64) Color {
	hue := math.Atan2(y, x)*180/math.Pi + 90
	return FromHSL(HSL{Hue: wrapHue(hue), Saturation: saturation, Lightness: lightness})
}

func formatPercent(p float64) string {
	s := fmt.Sprintf("%.4f", p)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
