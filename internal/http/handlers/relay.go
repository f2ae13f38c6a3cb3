package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"promptlab/internal/relay"
)

const (
	msgMethodNotAllowed = "Método não permitido."
	msgInvalidURL       = "URL inválida."
	msgUpstreamFailed   = "Falha ao buscar a imagem."
	msgRelayFailed      = "Erro ao processar o proxy de imagem."
)

// ImageProxy fetches the image named by the url query parameter and returns
// its bytes with a permissive CORS header, so the browser can read remote
// images that would otherwise be blocked.
func (a *App) ImageProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		a.error(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	values := r.URL.Query()["url"]
	if len(values) != 1 || values[0] == "" {
		a.error(w, http.StatusBadRequest, msgInvalidURL)
		return
	}

	img, err := a.Relay.Fetch(r.Context(), values[0])
	if err != nil {
		var upstream *relay.UpstreamError
		if errors.As(err, &upstream) {
			// A 304 cannot carry a body; pass the bare status on.
			if upstream.Status == http.StatusNotModified {
				w.WriteHeader(upstream.Status)
				return
			}
			a.error(w, upstream.Status, msgUpstreamFailed)
			return
		}
		a.Logger.Error().Err(err).Str("url", values[0]).Msg("image relay failed")
		a.error(w, http.StatusInternalServerError, msgRelayFailed)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
