package handlers

import "net/http"

func (a *App) CatalogList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.catalog())
}
