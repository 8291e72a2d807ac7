package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floatchat-backend/cmd"
	"floatchat-backend/internal/api"
	"floatchat-backend/internal/config"
	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/ingest"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("Starting FloatChat API server...")

	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	provider, err := cmd.NewStorageProvider(cfg)
	if err != nil {
		log.Fatalf("failed to create storage provider: %v", err)
	}
	if err := provider.CreateBucket(context.Background(), cfg.DataBucketName); err != nil {
		log.Fatalf("failed to create data bucket: %v", err)
	}

	publisher, inProcReceiver, err := cmd.NewPublisherWithFallback(cfg)
	if err != nil {
		log.Fatalf("failed to connect to message queue: %v", err)
	}
	defer publisher.Close()

	orchestrator, vizAgent, err := cmd.BuildAgents(cfg, db)
	if err != nil {
		log.Fatalf("failed to build agents: %v", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if inProcReceiver != nil {
		expert, err := geo.NewExpert()
		if err != nil {
			log.Fatalf("failed to load geographic knowledge: %v", err)
		}
		processor := ingest.NewTaskProcessor(db, provider, expert)
		for i := 0; i < cfg.WorkerConcurrency; i++ {
			go processor.Run(workerCtx, inProcReceiver)
		}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	limiter := api.NewSessionRateLimiter(cfg.ChatRatePerSecond, cfg.ChatRateBurst)

	backendService := api.NewBackendService(db, publisher, provider, orchestrator)
	chatService := api.NewChatService(db, orchestrator, limiter, cfg.Debug)
	vizService := api.NewVisualizationService(vizAgent)

	addRoutes := func(r chi.Router) {
		backendService.AddRoutes(r)
		chatService.AddRoutes(r)
		vizService.AddRoutes(r)
	}

	addRoutes(r)
	r.Route("/api/v1", addRoutes)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		stopWorkers()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
