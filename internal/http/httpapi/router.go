package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"promptlab/internal/http/handlers"
	"promptlab/internal/infra"
	"promptlab/internal/middleware"
)

// Options carries the cross-cutting settings of the router.
type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
	)

	r.Get("/v1/healthz", app.Health)

	// The relay sets its own CORS header and checks the method itself.
	r.HandleFunc("/api/image-proxy", app.ImageProxy)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.CORS(opts.AllowedOrigins),
			middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		)

		r.Get("/api/catalog", app.CatalogList)
		r.Post("/api/palette", app.Palette)
		r.Get("/api/palette/wheel", app.PaletteWheel)
		r.Post("/api/prompt", app.Prompt)
		r.Post("/api/ideas/subject", app.IdeaSubject)
		r.Get("/api/live", app.Live)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/api/ideas/generate", app.IdeaGenerate)
			r.Post("/api/images/generate", app.ImagesGenerate)
		})

		r.Options("/api/*", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}
