package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rina-librarian-go/internal/catalog"
	"github.com/rina-librarian-go/internal/chat"
	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/handlers"
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/rina-librarian-go/internal/middleware"
	"github.com/rina-librarian-go/internal/moderation"
	"github.com/rina-librarian-go/internal/retrieval"
	"github.com/rina-librarian-go/internal/services/ai"
	"github.com/rina-librarian-go/internal/services/cache"
	"github.com/rina-librarian-go/internal/services/embedding"
	"github.com/rina-librarian-go/internal/services/storage"
	"github.com/rina-librarian-go/internal/services/vector"
	"github.com/rina-librarian-go/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting book recommendation service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	storageManager, err := storage.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	// Initialize i18n
	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Load the catalog and fill the similarity index
	cat := catalog.Load(cfg.Catalog.Path, log)

	embedder := embedding.NewClient(&cfg.Models, log)

	var index vector.Index
	switch cfg.Retrieval.Index.Type {
	case "chroma":
		index = vector.NewChromaIndex(&cfg.Retrieval.Index.Chroma, log)
	default:
		index = vector.NewMemoryIndex(log)
	}

	if err := vector.Ingest(ctx, cat, embedder, index, log); err != nil {
		log.WithError(err).Error("Catalog ingest failed, semantic search degraded")
	}

	// Initialize services
	aiService := ai.NewClient(&cfg.Models, log)
	cacheService := cache.NewCache(cfg, log)
	rateLimiter := middleware.NewRateLimiter(cfg, log)
	metrics := middleware.NewMetrics()

	classifier := moderation.NewClassifier(&cfg.Moderation)
	gate := moderation.NewGate(classifier, cfg.Moderation.Mode, localizer, log)
	router := retrieval.NewRouter(cat, embedder, index, cfg.Retrieval.TopK, log)
	composer := chat.NewComposer(cat)
	registry := chat.NewRegistry(cfg, log)

	chatService := chat.NewService(cfg, gate, router, composer, aiService, cacheService,
		storageManager, localizer, metrics, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(storageManager, registry, localizer, log)
	chatHandler := handlers.NewChatHandler(chatService, rateLimiter, metrics, localizer, log)
	sessionsHandler := handlers.NewSessionsHandler(storageManager, log)

	apiRouter := handlers.NewRouter(authHandler, chatHandler, sessionsHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Start periodic tasks
	go startPeriodicTasks(ctx, registry, metrics, log)

	// Start the API server
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	cancel()
	log.Info("Service stopped")
}

// startPeriodicTasks refreshes gauge metrics in the background.
func startPeriodicTasks(ctx context.Context, registry *chat.Registry, metrics *middleware.Metrics, log *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SetActiveSessions(float64(registry.Count()))
		}
	}
}
