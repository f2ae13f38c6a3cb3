package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/patrickmn/go-cache"

	"promptlab/internal/catalog"
	"promptlab/internal/domain"
	"promptlab/internal/infra"
	"promptlab/internal/relay"
)

const maxBodyBytes = 1 << 20

// Collaborator is the remote AI service used for ideas and previews.
type Collaborator interface {
	HasCredentials() bool
	SuggestIdea(ctx context.Context, locale string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (domain.ImageReference, error)
}

type App struct {
	Logger     infra.Logger
	Catalog    *catalog.Store
	Relay      *relay.Fetcher
	AI         Collaborator
	ImageCache *cache.Cache
	Hub        *LiveHub
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (a *App) catalog() *catalog.Catalog {
	if a.Catalog == nil {
		return catalog.Default()
	}
	return a.Catalog.Current()
}
