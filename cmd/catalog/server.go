package main

import (
	"net/http"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/config"
	"musiccatalog/internal/http/middleware"
	"musiccatalog/internal/httpapi"
	"musiccatalog/internal/store"
)

func newServices(catalog store.Catalog) catalogServices {
	return catalogServices{
		artists: artists.New(catalog),
		albums:  albums.New(catalog, catalog),
		tracks:  tracks.New(catalog, catalog),
	}
}

func newHTTPHandler(cfg *config.Config, svc catalogServices) http.Handler {
	routes := httpapi.New(svc.artists, svc.albums, svc.tracks).Routes()

	return middleware.Chain(routes,
		middleware.RequestLogging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}
