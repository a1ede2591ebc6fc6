package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"listing-chat-server/internal/chat"
	"listing-chat-server/internal/config"
	"listing-chat-server/internal/handlers"
	"listing-chat-server/internal/middleware"
	"listing-chat-server/internal/models"
	"listing-chat-server/internal/notify"
	"listing-chat-server/internal/presence"
)

// Services bundles the chat subsystem components the routes expose.
type Services struct {
	Store      *chat.Store
	Aggregator *chat.Aggregator
	Lifecycle  *chat.Lifecycle
	Presence   presence.Store
	Dispatcher *notify.Dispatcher
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc Services) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	listingHandler := handlers.NewListingHandler(db)
	chatHandler := handlers.NewChatHandler(svc.Store, svc.Aggregator, svc.Lifecycle, svc.Presence)
	adminHandler := handlers.NewAdminHandler(svc.Aggregator, svc.Dispatcher)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Listing routes (chat-facing subset of the catalog)
		listingRoutes := private.Group("/listings")
		{
			listingRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleSeller, models.RoleAdmin), listingHandler.CreateListing)
			listingRoutes.GET("", listingHandler.GetListings)
			listingRoutes.GET("/:id", listingHandler.GetListingByID)
		}

		// Chat routes
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/send", chatHandler.SendMessage)
			chatRoutes.GET("/fetch", chatHandler.FetchMessages)
			chatRoutes.POST("/mark-read", chatHandler.MarkRead)
			chatRoutes.GET("/conversations", chatHandler.GetConversations)

			// Participants close their own chats; admins any (checked in handler)
			chatRoutes.POST("/close", chatHandler.CloseChat)

			// Presence touch, called on load and every 2 minutes
			chatRoutes.POST("/last-seen", chatHandler.TouchLastSeen)

			// Admin-only oversight and operational routes
			adminRoutes := chatRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("/clear-all", chatHandler.ClearAll)
				adminRoutes.GET("/admin/all-conversations", adminHandler.AllConversations)
				adminRoutes.GET("/admin/conversation-messages", adminHandler.ConversationMessages)
				adminRoutes.GET("/admin/email-log", adminHandler.EmailLog)
			}
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
