package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"

	"promptlab/internal/catalog"
	"promptlab/internal/http/handlers"
	httpapi "promptlab/internal/http/httpapi"
	"promptlab/internal/infra"
	"promptlab/internal/infra/geoip"
	"promptlab/internal/providers/together"
	"promptlab/internal/relay"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := catalog.NewStore(cfg.CatalogPath, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load catalog")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}
	if closer, ok := resolver.(io.Closer); ok {
		defer closer.Close()
	}

	ai := together.NewClient(together.Options{
		APIKey:            cfg.TogetherAPIKey,
		BaseURL:           cfg.TogetherBaseURL,
		ChatModel:         cfg.TogetherChatModel,
		ImageModel:        cfg.TogetherImageModel,
		Logger:            &logger,
		RequestsPerMinute: cfg.TogetherRPM,
	})
	if !cfg.HasTogetherKey() {
		logger.Warn().Msg("TOGETHER_API_KEY not set; idea and image generation disabled")
	}

	hub := handlers.NewLiveHub(logger)
	store.OnReload(func(c *catalog.Catalog) {
		hub.Broadcast(handlers.LiveMessage{Type: "catalog", Data: c})
	})

	app := &handlers.App{
		Logger:     logger,
		Catalog:    store,
		Relay:      relay.NewFetcher(relay.Options{Logger: &logger}),
		AI:         ai,
		ImageCache: cache.New(cfg.ImageCacheTTL, 2*cfg.ImageCacheTTL),
		Hub:        hub,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   geoip.Lookup(resolver),
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router, logger)

	if err := store.Watch(ctx); err != nil {
		logger.Warn().Err(err).Msg("catalog hot reload disabled")
	}

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
