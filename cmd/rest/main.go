package main

import (
	"context"
	"log"

	"ai-trendboard-be/internal/bootstrap"
	"ai-trendboard-be/internal/config"
	"ai-trendboard-be/internal/server"
	"ai-trendboard-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.DashboardPassword == "" {
		log.Println("[WARN] DASHBOARD_PASSWORD is not set; every login will be rejected")
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Progress Consumer...")
		if err := container.ProgressService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
