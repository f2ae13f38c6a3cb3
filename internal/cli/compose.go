package cli

import (
	"fmt"
	"strings"

	"promptlab/internal/catalog"
	"promptlab/internal/domain"
	"promptlab/internal/palette"
	"promptlab/internal/prompt"
)

// Options are the flag values of the composer.
type Options struct {
	Subject        string
	Idea           string
	Accent         string
	Mode           string
	NonInteractive bool
}

// Result is one finished composition.
type Result struct {
	Selection domain.Selection
	Accent    palette.Color
	Mode      palette.Mode
	Palette   palette.Palette
	Prompt    string
}

// Compose starts from the catalog defaults, applies flags and, unless
// NonInteractive is set, asks for every field.
func Compose(cat *catalog.Catalog, opts Options, p Prompter) (Result, error) {
	var flags domain.Selection
	if opts.Idea != "" {
		flags.Subject = prompt.SubjectFromIdea(opts.Idea)
	}
	if opts.Subject != "" {
		flags.Subject = opts.Subject
	}
	sel := flags.WithDefaults(cat.Defaults.Selection)
	accent := cat.Defaults.Accent
	mode := cat.Defaults.PaletteMode
	if opts.Accent != "" {
		c, err := palette.ParseHex(opts.Accent)
		if err != nil {
			return Result{}, fmt.Errorf("--accent: %w", err)
		}
		accent = c
	}
	if opts.Mode != "" {
		mode = palette.ParseMode(opts.Mode)
	}

	if !opts.NonInteractive {
		var err error
		if sel, err = askSelection(cat, sel, p); err != nil {
			return Result{}, err
		}
		if accent, err = askAccent(accent, p); err != nil {
			return Result{}, err
		}
		label, err := p.Select("Harmonia", modeLabels(cat.PaletteModes), string(mode))
		if err != nil {
			return Result{}, err
		}
		mode = palette.ParseMode(label)
	}

	pal := palette.Build(accent, mode)
	return Result{
		Selection: sel,
		Accent:    accent,
		Mode:      palette.ParseMode(string(mode)),
		Palette:   pal,
		Prompt:    prompt.Build(sel, pal),
	}, nil
}

func askSelection(cat *catalog.Catalog, sel domain.Selection, p Prompter) (domain.Selection, error) {
	var err error
	ask := func(title string, options []string, current *string) {
		if err != nil {
			return
		}
		*current, err = p.Select(title, options, *current)
	}
	input := func(title string, current *string) {
		if err != nil {
			return
		}
		*current, err = p.Input(title, *current)
	}

	input("Sujeito", &sel.Subject)
	ask("Enquadramento", cat.ShotTypes, &sel.ShotType)
	ask("Ângulo", cat.CameraAngles, &sel.CameraAngle)
	ask("Mood", cat.Moods, &sel.Mood)
	ask("Estilo", cat.Styles, &sel.Style)
	ask("Ambiente", cat.Environments, &sel.Environment)
	ask("Iluminação", cat.Lighting, &sel.Lighting)
	ask("Color grade", cat.ColorGrades, &sel.ColorGrade)
	ask("Lente", cat.Lenses, &sel.Lens)
	ask("Proporção", cat.AspectRatios, &sel.AspectRatio)
	input("Negativos", &sel.Negatives)
	return sel, err
}

func askAccent(current palette.Color, p Prompter) (palette.Color, error) {
	raw, err := p.Input("Cor base (#rrggbb)", current.Hex())
	if err != nil {
		return palette.Color{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return current, nil
	}
	c, err := palette.ParseHex(raw)
	if err != nil {
		return palette.Color{}, err
	}
	return c, nil
}

func modeLabels(modes []palette.Mode) []string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}
