package main

import (
	"context"
	"os"

	"mtt/feedgen/internal/config"
	"mtt/feedgen/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting feed generator...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	mode := "generate"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx := context.Background()
	switch mode {
	case "generate":
		if err := app.Generate(ctx); err != nil {
			log.Fatalf("Feed generation failed: %v", err)
		}
		log.Info("Feed generated successfully")
	case "serve":
		if err := app.Serve(ctx); err != nil {
			log.Fatalf("Server exited with error: %v", err)
		}
	default:
		log.Fatalf("Unknown command %q (expected generate or serve)", mode)
	}
}
