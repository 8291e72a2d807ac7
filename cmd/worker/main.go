package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"floatchat-backend/cmd"
	"floatchat-backend/internal/config"
	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/ingest"
	"floatchat-backend/internal/messaging"
)

func main() {
	log.Println("Starting ingest worker...")

	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cfg.RabbitMQURL == "" {
		log.Fatalf("RABBITMQ_URL is required for the worker process")
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	provider, err := cmd.NewStorageProvider(cfg)
	if err != nil {
		log.Fatalf("failed to create storage provider: %v", err)
	}

	expert, err := geo.NewExpert()
	if err != nil {
		log.Fatalf("failed to load geographic knowledge: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}

	processor := ingest.NewTaskProcessor(db, provider, expert)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processor.Run(ctx, receiver)
		}()
	}

	log.Printf("Worker started with %d consumers. Waiting for tasks. Press Ctrl+C to exit.", cfg.WorkerConcurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, waiting for in-flight tasks...")

	receiver.Close()
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Println("Timed out waiting for in-flight tasks.")
	}

	log.Println("Worker process stopped.")
}
