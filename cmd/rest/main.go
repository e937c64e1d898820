package main

import (
	"context"
	"log"
	"os"

	"scad-studio-be/internal/bootstrap"
	"scad-studio-be/internal/config"
	"scad-studio-be/internal/server"
	"scad-studio-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Panicf("Unable to create data directory: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	ctx := context.Background()
	go container.WebSocketHub.Run(ctx)
	go func() {
		log.Println("Background: Starting File Watcher...")
		if err := container.WatcherService.Watch(ctx); err != nil && err != context.Canceled {
			log.Printf("Background Watcher Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
