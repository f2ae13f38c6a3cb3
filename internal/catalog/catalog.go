// Package catalog holds the enumerated option lists offered by the prompt
// form, together with the form's starting values.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"promptlab/internal/domain"
	"promptlab/internal/palette"
)

//go:embed catalog.toml
var embedded string

// Defaults are the values the form starts with.
type Defaults struct {
	Accent      palette.Color    `json:"accent" toml:"accent"`
	PaletteMode palette.Mode     `json:"paletteMode" toml:"palette_mode"`
	Idea        string           `json:"idea" toml:"idea"`
	Selection   domain.Selection `json:"selection" toml:"selection"`
}

// Catalog is an immutable set of option lists.
type Catalog struct {
	ShotTypes    []string       `json:"shotTypes" toml:"shot_types"`
	CameraAngles []string       `json:"cameraAngles" toml:"camera_angles"`
	Moods        []string       `json:"moods" toml:"moods"`
	Styles       []string       `json:"styles" toml:"styles"`
	Environments []string       `json:"environments" toml:"environments"`
	Lighting     []string       `json:"lighting" toml:"lighting"`
	ColorGrades  []string       `json:"colorGrades" toml:"color_grades"`
	Lenses       []string       `json:"lenses" toml:"lenses"`
	AspectRatios []string       `json:"aspectRatios" toml:"aspect_ratios"`
	PaletteModes []palette.Mode `json:"paletteModes" toml:"palette_modes"`
	SubjectChips []string       `json:"subjectChips" toml:"subject_chips"`
	Defaults     Defaults       `json:"defaults" toml:"defaults"`
}

// FieldError names a selection field whose value is not offered.
type FieldError struct {
	Field string
	Value string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %q is not a catalog option", e.Field, e.Value)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes TOML. Keys absent from data keep their embedded values, so an
// override file may list only the options it changes.
func Parse(data string) (*Catalog, error) {
	var c Catalog
	if embedded != data {
		if _, err := toml.Decode(embedded, &c); err != nil {
			return nil, fmt.Errorf("catalog: decode embedded: %w", err)
		}
	}
	md, err := toml.Decode(data, &c)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("catalog: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads path over the embedded defaults. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(string(raw))
}

// Validate reports every selection field whose value is set but not offered.
// Subject and negatives are free text and never checked.
func (c *Catalog) Validate(sel domain.Selection) error {
	sel = sel.Normalized()
	checks := []struct {
		field   string
		value   string
		options []string
	}{
		{"shotType", sel.ShotType, c.ShotTypes},
		{"cameraAngle", sel.CameraAngle, c.CameraAngles},
		{"mood", sel.Mood, c.Moods},
		{"style", sel.Style, c.Styles},
		{"environment", sel.Environment, c.Environments},
		{"colorGrade", sel.ColorGrade, c.ColorGrades},
		{"lighting", sel.Lighting, c.Lighting},
		{"lens", sel.Lens, c.Lenses},
		{"aspectRatio", sel.AspectRatio, c.AspectRatios},
	}
	var errs []error
	for _, chk := range checks {
		if chk.value == "" || contains(chk.options, chk.value) {
			continue
		}
		errs = append(errs, FieldError{Field: chk.field, Value: chk.value})
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidSelection, errors.Join(errs...))
}

func (c *Catalog) check() error {
	lists := map[string][]string{
		"shot_types":    c.ShotTypes,
		"camera_angles": c.CameraAngles,
		"moods":         c.Moods,
		"styles":        c.Styles,
		"environments":  c.Environments,
		"lighting":      c.Lighting,
		"color_grades":  c.ColorGrades,
		"lenses":        c.Lenses,
		"aspect_ratios": c.AspectRatios,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return fmt.Errorf("catalog: %s must not be empty", name)
		}
	}
	for _, m := range c.PaletteModes {
		if palette.ParseMode(string(m)) != m {
			return fmt.Errorf("catalog: unknown palette mode %q", m)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
