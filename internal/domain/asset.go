package domain

import "strings"

// DefaultImageMIME is assumed for base64 payloads that carry no type.
const DefaultImageMIME = "image/png"

// ImageReference is something a browser can put in an <img src>: either a
// remote URL or a data URI.
type ImageReference struct {
	URL string `json:"url"`
}

// IsRemote reports whether the reference points at an http(s) resource.
func (r ImageReference) IsRemote() bool {
	return strings.HasPrefix(r.URL, "http")
}

// NewImageReference turns a provider candidate into a displayable reference.
// Candidates that already look like URLs pass through; anything else is
// treated as raw base64 image data.
func NewImageReference(candidate string) ImageReference {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ImageReference{}
	}
	if strings.HasPrefix(candidate, "http") || strings.HasPrefix(candidate, "data:") {
		return ImageReference{URL: candidate}
	}
	return ImageReference{URL: "data:" + DefaultImageMIME + ";base64," + candidate}
}
