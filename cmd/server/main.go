package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"core/internal/config"
	"core/internal/handler"
	"core/internal/index"
	"core/internal/search"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Property Semantic Search")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize the vector index store
	store, err := index.NewStore(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Provision the index before serving the first request
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Ensure(ctx, cfg.Embedding.Dimensions); err != nil {
		log.Fatalf("Failed to provision vector index: %v", err)
	}
	ready, err := store.Ready(ctx)
	if err != nil {
		log.Fatalf("Failed to check index readiness: %v", err)
	}
	if !ready {
		log.Fatalf("Vector index is not ready")
	}
	log.Printf("✅ Vector index ready (dimension %d, cosine)", cfg.Embedding.Dimensions)

	// Initialize the embedding client
	if !cfg.Embedding.Enabled {
		log.Println("⚠️  Embedding API is disabled - semantic search will not work")
		log.Println("   Set EMBEDDING_API_KEY environment variable to enable it")
	}
	embedder := service.NewCachedEmbedder(
		service.NewOpenAIClient(&cfg.Embedding),
		cfg.Cache.MaxEntries,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
	)
	log.Printf("✅ Embedding client initialized")
	log.Printf("   - API Base: %s", cfg.Embedding.APIBase)
	log.Printf("   - Model: %s", cfg.Embedding.Model)
	log.Printf("   - Dimensions: %d", cfg.Embedding.Dimensions)

	// Initialize services
	engine := search.NewEngine(embedder, store)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(engine, cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	listingsHandler := handler.NewListingsHandler(embedder, store)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Liveness/info endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "property-semantic-search",
			"status":  "ok",
			"version": Version,
		})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "property-semantic-search",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	router.POST("/search", searchHandler.Search)
	router.POST("/listings/batch", listingsHandler.BatchUpsert)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
