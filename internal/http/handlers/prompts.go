package handlers

import (
	"errors"
	"net/http"

	"promptlab/internal/domain"
	"promptlab/internal/prompt"
)

type compositionRequest struct {
	Selection   domain.Selection `json:"selection"`
	Accent      string           `json:"accent"`
	PaletteMode string           `json:"paletteMode"`
	Strict      bool             `json:"strict"`
}

type compositionResponse struct {
	Prompt  string   `json:"prompt"`
	Palette []string `json:"palette"`
	Mode    string   `json:"mode"`
}

// compose validates the request and builds the prompt. Blank fields keep
// their blank value: the composer drops them.
func (a *App) compose(req compositionRequest) (compositionResponse, error) {
	_, mode, pal, err := a.resolvePalette(paletteRequest{Accent: req.Accent, PaletteMode: req.PaletteMode})
	if err != nil {
		return compositionResponse{}, err
	}
	if req.Strict {
		if err := a.catalog().Validate(req.Selection); err != nil {
			return compositionResponse{}, err
		}
	}
	return compositionResponse{
		Prompt:  prompt.Build(req.Selection, pal),
		Palette: pal.Hex(),
		Mode:    string(mode),
	}, nil
}

func (a *App) Prompt(w http.ResponseWriter, r *http.Request) {
	var req compositionRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	resp, err := a.compose(req)
	if err != nil {
		a.error(w, http.StatusBadRequest, compositionErrorMessage(err))
		return
	}
	a.json(w, http.StatusOK, resp)
}

func compositionErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidColor):
		return msgInvalidAccent
	default:
		return "invalid composition"
	}
}
