package handlers

import (
	"net/http"
	"strings"

	"github.com/patrickmn/go-cache"

	"promptlab/internal/domain"
)

type imageGenerateRequest struct {
	Prompt string `json:"prompt"`
	compositionRequest
}

type imageGenerateResponse struct {
	Image  domain.ImageReference `json:"image"`
	Prompt string                `json:"prompt"`
	Cached bool                  `json:"cached"`
}

// ImagesGenerate renders a preview. An explicit prompt wins; otherwise the
// prompt is composed from the selection. Results are cached per prompt.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imageGenerateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	text := strings.TrimSpace(req.Prompt)
	if text == "" {
		composed, err := a.compose(req.compositionRequest)
		if err != nil {
			a.error(w, http.StatusBadRequest, compositionErrorMessage(err))
			return
		}
		text = composed.Prompt
	}

	if a.ImageCache != nil {
		if v, ok := a.ImageCache.Get(text); ok {
			if ref, ok := v.(domain.ImageReference); ok {
				a.json(w, http.StatusOK, imageGenerateResponse{Image: ref, Prompt: text, Cached: true})
				return
			}
		}
	}
	if a.AI == nil || !a.AI.HasCredentials() {
		a.error(w, http.StatusServiceUnavailable, "Defina TOGETHER_API_KEY no ambiente para gerar imagens.")
		return
	}
	ref, err := a.AI.GenerateImage(r.Context(), text)
	if err != nil {
		a.providerError(w, err, "Falha ao gerar imagem. Tente novamente.", "Resposta da API não trouxe uma imagem utilizável.")
		return
	}
	if a.ImageCache != nil {
		a.ImageCache.Set(text, ref, cache.DefaultExpiration)
	}
	a.json(w, http.StatusOK, imageGenerateResponse{Image: ref, Prompt: text})
}
