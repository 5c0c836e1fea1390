package main

import (
	"context"
	"log"

	"carechat-be/internal/bootstrap"
	"carechat-be/internal/config"
	"carechat-be/internal/server"
	"carechat-be/internal/tracer"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer("carechat-backend")
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Telemetry Service...")
		if err := container.TelemetryService.Consume(context.Background()); err != nil {
			log.Printf("Background Telemetry Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
