package handlers

import (
	"net/http"
	"strconv"

	"promptlab/internal/palette"
)

const msgInvalidAccent = "accent must be a #rrggbb color"

type paletteRequest struct {
	Accent      string `json:"accent"`
	PaletteMode string `json:"paletteMode"`
}

type paletteResponse struct {
	Accent  string       `json:"accent"`
	Mode    palette.Mode `json:"mode"`
	HSL     palette.HSL  `json:"hsl"`
	Hue     int          `json:"hueDegrees"`
	Palette []string     `json:"palette"`
}

// resolvePalette fills blank fields from the catalog defaults and derives the palette.
func (a *App) resolvePalette(req paletteRequest) (palette.Color, palette.Mode, palette.Palette, error) {
	defaults := a.catalog().Defaults
	accent := defaults.Accent
	if req.Accent != "" {
		c, err := palette.ParseHex(req.Accent)
		if err != nil {
			return palette.Color{}, "", nil, err
		}
		accent = c
	}
	label := string(defaults.PaletteMode)
	if req.PaletteMode != "" {
		label = req.PaletteMode
	}
	mode := palette.ParseMode(label)
	return accent, mode, palette.Build(accent, mode), nil
}

func (a *App) Palette(w http.ResponseWriter, r *http.Request) {
	var req paletteRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	accent, mode, pal, err := a.resolvePalette(req)
	if err != nil {
		a.error(w, http.StatusBadRequest, msgInvalidAccent)
		return
	}
	hsl := accent.HSL()
	a.json(w, http.StatusOK, paletteResponse{
		Accent:  accent.Hex(),
		Mode:    mode,
		HSL:     hsl,
		Hue:     hsl.RoundedHue(),
		Palette: pal.Hex(),
	})
}

type wheelResponse struct {
	Stops       []palette.WheelStop `json:"stops"`
	Gradient    string              `json:"gradient"`
	Saturation  float64             `json:"saturation"`
	Lightness   float64             `json:"lightness"`
	KnobRadius  float64             `json:"knobRadius"`
	KnobOffsetX *float64            `json:"knobX,omitempty"`
	KnobOffsetY *float64            `json:"knobY,omitempty"`
	Picked      string              `json:"picked,omitempty"`
}

// PaletteWheel returns the color wheel gradient. With ?accent= it also places
// the knob for that color. With ?x=&y=, a click relative to the wheel center,
// it returns the color under that point.
func (a *App) PaletteWheel(w http.ResponseWriter, r *http.Request) {
	stops := palette.WheelStops(palette.WheelSteps, palette.WheelSaturation, palette.WheelLightness)
	resp := wheelResponse{
		Stops:      stops,
		Gradient:   palette.ConicGradient(stops),
		Saturation: palette.WheelSaturation,
		Lightness:  palette.WheelLightness,
		KnobRadius: palette.WheelKnobRadius,
	}
	if raw := r.URL.Query().Get("accent"); raw != "" {
		c, err := palette.ParseHex(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, msgInvalidAccent)
			return
		}
		x, y := palette.KnobOffset(c, palette.WheelKnobRadius)
		resp.KnobOffsetX, resp.KnobOffsetY = &x, &y
	}
	if q := r.URL.Query(); q.Has("x") || q.Has("y") {
		x, errX := strconv.ParseFloat(q.Get("x"), 64)
		y, errY := strconv.ParseFloat(q.Get("y"), 64)
		if errX != nil || errY != nil || (x == 0 && y == 0) {
			a.error(w, http.StatusBadRequest, "x and y must be numbers off the wheel center")
			return
		}
		resp.Picked = palette.PickFromWheel(x, y, palette.WheelSaturation, palette.WheelLightness).Hex()
	}
	a.json(w, http.StatusOK, resp)
}
