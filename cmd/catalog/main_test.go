package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musiccatalog/internal/config"
	"musiccatalog/internal/store"
)

func TestBootstrapSeedsEmptyCatalogOnce(t *testing.T) {
	ctx := context.Background()
	svc := newServices(store.NewMemoryStore())

	require.NoError(t, bootstrapDemoData(ctx, svc))

	seeded, err := svc.artists.List(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, len(demoCatalog))

	allTracks, err := svc.tracks.List(ctx)
	require.NoError(t, err)
	for _, tr := range allTracks {
		assert.NotNil(t, tr.AlbumTitle, tr.Title)
		assert.NotNil(t, tr.ArtistName, tr.Title)
	}

	require.NoError(t, bootstrapDemoData(ctx, svc))
	again, err := svc.artists.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(demoCatalog))
}

func TestOpenCatalogMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	catalog, closeFn, err := openCatalog(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &store.MemoryStore{}, catalog)
}

func TestHandlerWiring(t *testing.T) {
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}}
	h := newHTTPHandler(cfg, newServices(store.NewMemoryStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/artistas", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
