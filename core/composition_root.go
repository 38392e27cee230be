package core

import (
	"context"
	"os"

	"github.com/status-im/asset-loader/api"
	"github.com/status-im/asset-loader/asset"
	"github.com/status-im/asset-loader/cache"
	"github.com/status-im/asset-loader/config"
	"github.com/status-im/asset-loader/events"
	"github.com/status-im/asset-loader/fetch"
	"github.com/status-im/asset-loader/loader"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, *loader.Loader, error) {
	registry := NewRegistry()

	// Lifecycle event bus shared by the loader and the API stream
	bus := events.NewBus()

	// Cache store for ready assets
	store := cache.NewStore(cfg.Cache)

	// Single-attempt HTTP fetcher; retry and failover decisions live in
	// the item state machine
	fetcher := fetch.NewHTTPClient(cfg.Fetch, fetch.NewHTTPRequestMetricsWriter("loader"))

	// Create the loader with built-in decode capabilities
	assetLoader := loader.New(cfg, store, fetcher, asset.Capabilities{}, bus)
	registry.Register(assetLoader)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server and register it as a service
	server := api.New(port, assetLoader, bus)
	registry.Register(server)

	return registry, assetLoader, nil
}
