package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/status-im/asset-loader/config"
	"github.com/status-im/asset-loader/core"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Printf("Error loading config (%v), using defaults", err)
		cfg = config.DefaultConfig()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		cancel()
	}()

	// Create and register all services
	registry, _, err := core.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up services:", err)
	}

	if err := registry.StartAll(ctx); err != nil {
		log.Fatal("Failed to start services:", err)
	}
	defer registry.StopAll()

	<-ctx.Done()
}
