package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/api/handlers"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/configuration"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *configuration.Config {
	return &configuration.Config{
		StorageDriver: configuration.DriverMemory,
		BlobDriver:    configuration.DriverMemory,
		Server:        configuration.ServerConfig{Port: "0", PublicBaseURL: "http://localhost:3000"},
	}
}

func TestOpenMemoryDrivers(t *testing.T) {
	cfg := memoryConfig()
	ctx := context.Background()

	st, err := openStorage(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, st)

	blobs, err := openBlobs(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &services.MemoryBlobStore{}, blobs)
}

func TestRouterServesHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig()
	st := storage.NewLocalStorage()
	blobs := services.NewMemoryBlobStore()
	invites := services.NewInviteStore(st, services.NewCodec(nil), zerolog.Nop())
	files := services.NewFileStore(st, nil, zerolog.Nop())

	r := newRouter(cfg, handlers.New(invites, files, blobs, st, cfg.Server.PublicBaseURL, zerolog.Nop()), invites, zerolog.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, memoryConfig(), zerolog.Nop())
	assert.NoError(t, err)
}
