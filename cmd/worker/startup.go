package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"laptopshop-backend/pkg/container"
)

// startServices performs health checks and starts the probe endpoint
func startServices(c *container.Container) error {
	log.Println("============================================")
	log.Println("🚀 Laptop Shop Worker Starting...")
	log.Println("============================================")

	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"PostgreSQL", c.DB.HealthCheck},
		{"Redis", c.Redis.HealthCheck},
	}

	for _, check := range checks {
		log.Printf("⏳ Checking %s...", check.name)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()

		if err != nil {
			log.Printf("❌ %s: %v", check.name, err)
			return fmt.Errorf("%s check failed: %w", check.name, err)
		}
		log.Printf("✓ %s: OK", check.name)
	}

	go startHealthCheckServer()

	return nil
}

// startHealthCheckServer starts HTTP server for health checks
func startHealthCheckServer() {
	http.HandleFunc("/health", healthCheckHandler)
	http.HandleFunc("/ready", readyCheckHandler)

	log.Println("[Health] Starting health check server on :9999")
	if err := http.ListenAndServe(":9999", nil); err != nil {
		log.Printf("[Health] Failed to start: %v", err)
	}
}

// healthCheckHandler handles /health endpoint
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"UP","service":"laptopshop-worker"}`))
}

// readyCheckHandler handles /ready endpoint (Kubernetes readiness probe)
func readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"READY"}`))
}
