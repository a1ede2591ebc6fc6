package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"listing-chat-server/internal/chat"
	"listing-chat-server/internal/config"
	"listing-chat-server/internal/models"
	"listing-chat-server/internal/notify"
	"listing-chat-server/internal/presence"
	"listing-chat-server/internal/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Presence backend: redis when configured, in-process otherwise
	var presenceStore presence.Store
	if cfg.RedisAddr != "" {
		redisStore, err := presence.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		defer redisStore.Close()
		presenceStore = redisStore
	} else {
		log.Println("REDIS_ADDR not set, keeping presence in memory")
		presenceStore = presence.NewMemoryStore()
	}

	// Chat subsystem wiring
	dispatcher := notify.NewDispatcher(presenceStore, notify.LogMailer{}, &notify.DBDirectory{DB: db}, notify.Options{
		PresenceWindow: cfg.Chat.PresenceWindow(),
		PreviewLength:  cfg.Chat.PreviewLength,
		LogSize:        cfg.Chat.EmailLogSize,
		AppURL:         cfg.AppURL,
		SiteName:       cfg.SiteName,
	})
	services := routes.Services{
		Store:      chat.NewStore(db, dispatcher),
		Aggregator: chat.NewAggregator(db, cfg.AppURL),
		Lifecycle:  chat.NewLifecycle(db),
		Presence:   presenceStore,
		Dispatcher: dispatcher,
	}

	// Daily sweep closing conversations with no recent messages
	scheduler := gocron.NewScheduler(time.Local)
	_, err = scheduler.Every(1).Day().At(cfg.Chat.SweepAt).Do(func() {
		closed, err := services.Lifecycle.AutoCloseSweep(cfg.Chat.InactivityWindow())
		if err != nil {
			log.Printf("auto-close sweep: %v", err)
			return
		}
		log.Printf("auto-close sweep closed %d conversation(s)", closed)
	})
	if err != nil {
		log.Fatalf("Error scheduling auto-close sweep: %v", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, cfg, services)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
