package together

import (
	"context"
	"errors"
	"strings"

	"promptlab/internal/domain"
)

type imageRequest struct {
	Model                string `json:"model"`
	Prompt               string `json:"prompt"`
	DisableSafetyChecker bool   `json:"disable_safety_checker"`
}

type imageResponse struct {
	Data []struct {
		URL         string `json:"url"`
		B64JSON     string `json:"b64_json"`
		ImageBase64 string `json:"image_base64"`
	} `json:"data"`
}

// GenerateImage renders prompt with the image model. The first candidate of
// url, b64_json or image_base64 wins; base64 payloads become data URIs.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (domain.ImageReference, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.ImageReference{}, errors.New("together: prompt is required")
	}
	payload := imageRequest{
		Model:                c.imageModel,
		Prompt:               prompt,
		DisableSafetyChecker: false,
	}
	var out imageResponse
	if err := c.post(ctx, "/images/generations", payload, &out); err != nil {
		return domain.ImageReference{}, err
	}
	if len(out.Data) == 0 {
		return domain.ImageReference{}, ErrEmptyResponse
	}
	first := out.Data[0]
	ref := domain.NewImageReference(coalesce(first.URL, first.B64JSON, first.ImageBase64))
	if ref.URL == "" {
		return domain.ImageReference{}, ErrEmptyResponse
	}
	return ref, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
