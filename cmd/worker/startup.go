// cmd/worker/startup.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// startServices verifies dependencies rồi expose health endpoints
func startServices(cfg *Config) error {
	log.Println("============================================")
	log.Println("🚀 Agate City Worker Starting...")
	log.Println("============================================")

	if err := checkRedis(cfg.RedisAddr); err != nil {
		log.Printf("❌ Redis check failed: %v\n", err)
		return err
	}
	log.Println("✓ Redis Connection: OK")

	go startHealthCheckServer()

	return nil
}

// checkRedis ping Redis với client riêng, đóng ngay sau khi check.
// Asynq server và scheduler dùng cùng Redis nên một check là đủ.
func checkRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}

// startHealthCheckServer expose /health và /ready cho orchestrator probes
func startHealthCheckServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"agatecity-worker"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	log.Println("[Health] Starting health check server on :9999")
	if err := http.ListenAndServe(":9999", mux); err != nil {
		log.Printf("[Health] Failed to start: %v\n", err)
	}
}
