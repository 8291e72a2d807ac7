package cmd

import (
	"flag"
	"log"
	"log/slog"

	"floatchat-backend/internal/agents"
	"floatchat-backend/internal/chat"
	"floatchat-backend/internal/config"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/match"
	"floatchat-backend/internal/messaging"
	"floatchat-backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func NewStorageProvider(cfg *config.Config) (storage.Provider, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Provider(&storage.S3ProviderConfig{
			S3EndpointURL:     cfg.S3EndpointURL,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
	}
	return storage.NewLocalProvider(cfg.LocalStorageDir)
}

// NewMatcher picks the semantic matcher for the data agent. A configured
// match service wins, then local matching when an OpenAI key is present,
// otherwise matching is disabled and the agent falls back to SQL filters.
func NewMatcher(cfg *config.Config, db *gorm.DB) match.Matcher {
	if cfg.MatchServiceURL != "" {
		slog.Info("using remote match service", "url", cfg.MatchServiceURL)
		return match.NewRemoteMatcher(cfg.MatchServiceURL, cfg.MatchServiceKey, match.NewOpenAIEmbedder(cfg.EmbeddingModel))
	}
	if cfg.OpenAIAPIKey != "" {
		slog.Info("using local embedding matcher")
		return match.NewLocalMatcher(db, match.NewOpenAIEmbedder(cfg.EmbeddingModel))
	}
	slog.Info("semantic matching disabled")
	return nil
}

func NewPolisher(cfg *config.Config) agents.Polisher {
	if cfg.OpenAIAPIKey == "" {
		slog.Info("answer polishing disabled")
		return nil
	}
	polisher, err := chat.NewLLMPolisher(cfg.OpenAIModel, cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatalf("error creating answer polisher: %v", err)
	}
	return polisher
}

// BuildAgents wires the specialist agents and the orchestrator on top of them.
func BuildAgents(cfg *config.Config, db *gorm.DB) (*agents.Orchestrator, *agents.VisualizationAgent, error) {
	expert, err := geo.NewExpert()
	if err != nil {
		return nil, nil, err
	}

	dataAgent := agents.NewDataAgent(db, NewMatcher(cfg, db), expert)
	geoAgent := agents.NewGeographicAgent(expert)
	vizAgent := agents.NewVisualizationAgent(dataAgent)

	return agents.NewOrchestrator(dataAgent, geoAgent, vizAgent, NewPolisher(cfg)), vizAgent, nil
}

// NewPublisherWithFallback returns a RabbitMQ publisher, or an in-process
// queue when no broker is configured. The in-process receiver is non-nil in
// that case and the caller must run the worker loop itself.
func NewPublisherWithFallback(cfg *config.Config) (messaging.Publisher, messaging.Reciever, error) {
	if cfg.RabbitMQURL == "" {
		slog.Info("no RabbitMQ URL configured, running ingest tasks in process")
		queue := messaging.NewInMemoryQueue()
		return queue, queue, nil
	}

	publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}

	return publisher, nil, nil
}
