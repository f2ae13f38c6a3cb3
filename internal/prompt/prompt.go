// Package prompt composes the final image-generator prompt from a form
// selection and its palette.
//
// The prompt is always three segments, beginning, middle and end, joined by
// Delimiter:
//
//	<subject> — <framing and style, colors> — <lighting, lens, ar, negative>
//
// Blank fields are left out instead of producing empty placeholders.
package prompt

import (
	"strings"

	"promptlab/internal/domain"
	"promptlab/internal/palette"
)

const (
	// Delimiter separates the beginning, middle and end segments.
	Delimiter = " — "
	// DefaultBeginning stands in for a blank subject.
	DefaultBeginning = "A striking subject in motion"

	partSeparator = ", "
)

// Build renders the prompt. It is deterministic and has no side effects.
func Build(sel domain.Selection, pal palette.Palette) string {
	sel = sel.Normalized()
	segments := []string{Beginning(sel)}
	if middle := Middle(sel, pal); middle != "" {
		segments = append(segments, middle)
	}
	if end := End(sel); end != "" {
		segments = append(segments, end)
	}
	return strings.Join(segments, Delimiter)
}

// Beginning is the subject, or DefaultBeginning when the subject is blank.
func Beginning(sel domain.Selection) string {
	if subject := strings.TrimSpace(sel.Subject); subject != "" {
		return subject
	}
	return DefaultBeginning
}

// Middle lists shot type, angle, mood, style, environment, grade and palette
// colors in that order.
func Middle(sel domain.Selection, pal palette.Palette) string {
	parts := []string{sel.ShotType, sel.CameraAngle, sel.Mood, sel.Style, sel.Environment}
	if grade := strings.TrimSpace(sel.ColorGrade); grade != "" {
		parts = append(parts, grade+" palette")
	}
	if len(pal) > 0 {
		parts = append(parts, "colors "+strings.Join(pal.Hex(), partSeparator))
	}
	return joinNonEmpty(parts)
}

// End lists lighting, lens, aspect ratio and negatives in that order.
func End(sel domain.Selection) string {
	parts := []string{sel.Lighting, sel.Lens}
	if ar := strings.TrimSpace(sel.AspectRatio); ar != "" {
		parts = append(parts, "ar "+ar)
	}
	if neg := strings.TrimSpace(sel.Negatives); neg != "" {
		parts = append(parts, "negative: "+neg)
	}
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, partSeparator)
}
