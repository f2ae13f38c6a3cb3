package handlers

import (
	"errors"
	"net/http"
	"strings"

	"promptlab/internal/domain"
	"promptlab/internal/middleware"
	"promptlab/internal/prompt"
	"promptlab/internal/providers/together"
)

type ideaSubjectRequest struct {
	Idea string `json:"idea"`
}

type ideaResponse struct {
	Idea    string `json:"idea,omitempty"`
	Subject string `json:"subject"`
}

// IdeaSubject turns a free-form idea into a subject line.
func (a *App) IdeaSubject(w http.ResponseWriter, r *http.Request) {
	var req ideaSubjectRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	a.json(w, http.StatusOK, ideaResponse{Subject: prompt.SubjectFromIdea(req.Idea)})
}

// IdeaGenerate asks the AI collaborator for a fresh idea in the request locale.
func (a *App) IdeaGenerate(w http.ResponseWriter, r *http.Request) {
	if a.AI == nil || !a.AI.HasCredentials() {
		a.error(w, http.StatusServiceUnavailable, "Defina TOGETHER_API_KEY no ambiente para gerar textos.")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	idea, err := a.AI.SuggestIdea(r.Context(), locale)
	if err != nil {
		a.providerError(w, err, "Falha ao gerar texto. Tente novamente.", "Resposta da IA não trouxe um texto utilizável.")
		return
	}
	a.json(w, http.StatusOK, ideaResponse{Idea: idea, Subject: prompt.SubjectFromIdea(idea)})
}

// providerError maps collaborator failures to 503 or 502 answers.
func (a *App) providerError(w http.ResponseWriter, err error, fallback, empty string) {
	var apiErr *together.APIError
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		a.error(w, http.StatusServiceUnavailable, "Defina TOGETHER_API_KEY no ambiente.")
	case errors.Is(err, domain.ErrEmptyResponse):
		a.error(w, http.StatusBadGateway, empty)
	case errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "":
		a.Logger.Warn().Err(err).Int("status", apiErr.Status).Msg("provider rejected request")
		a.error(w, http.StatusBadGateway, apiErr.Message)
	default:
		a.Logger.Error().Err(err).Msg("provider call failed")
		a.error(w, http.StatusBadGateway, fallback)
	}
}
