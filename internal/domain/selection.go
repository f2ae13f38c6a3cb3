package domain

import "strings"

// Selection is one snapshot of the prompt form. It is passed by value and
// never mutated in place; every change produces a new Selection.
type Selection struct {
	Subject     string `json:"subject" toml:"subject"`
	ShotType    string `json:"shotType" toml:"shot_type"`
	CameraAngle string `json:"cameraAngle" toml:"camera_angle"`
	Mood        string `json:"mood" toml:"mood"`
	Style       string `json:"style" toml:"style"`
	Environment string `json:"environment" toml:"environment"`
	ColorGrade  string `json:"colorGrade" toml:"color_grade"`
	Lighting    string `json:"lighting" toml:"lighting"`
	Lens        string `json:"lens" toml:"lens"`
	AspectRatio string `json:"aspectRatio" toml:"aspect_ratio"`
	Negatives   string `json:"negatives" toml:"negatives"`
}

// Normalized returns a copy with every field trimmed of surrounding space.
func (s Selection) Normalized() Selection {
	return Selection{
		Subject:     strings.TrimSpace(s.Subject),
		ShotType:    strings.TrimSpace(s.ShotType),
		CameraAngle: strings.TrimSpace(s.CameraAngle),
		Mood:        strings.TrimSpace(s.Mood),
		Style:       strings.TrimSpace(s.Style),
		Environment: strings.TrimSpace(s.Environment),
		ColorGrade:  strings.TrimSpace(s.ColorGrade),
		Lighting:    strings.TrimSpace(s.Lighting),
		Lens:        strings.TrimSpace(s.Lens),
		AspectRatio: strings.TrimSpace(s.AspectRatio),
		Negatives:   strings.TrimSpace(s.Negatives),
	}
}

// WithDefaults fills every blank field from defaults. Subject and Negatives
// are included.
func (s Selection) WithDefaults(defaults Selection) Selection {
	pick := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	return Selection{
		Subject:     pick(s.Subject, defaults.Subject),
		ShotType:    pick(s.ShotType, defaults.ShotType),
		CameraAngle: pick(s.CameraAngle, defaults.CameraAngle),
		Mood:        pick(s.Mood, defaults.Mood),
		Style:       pick(s.Style, defaults.Style),
		Environment: pick(s.Environment, defaults.Environment),
		ColorGrade:  pick(s.ColorGrade, defaults.ColorGrade),
		Lighting:    pick(s.Lighting, defaults.Lighting),
		Lens:        pick(s.Lens, defaults.Lens),
		AspectRatio: pick(s.AspectRatio, defaults.AspectRatio),
		Negatives:   pick(s.Negatives, defaults.Negatives),
	}
}
