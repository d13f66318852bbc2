package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atelierlink/marketplace-backend/internal/handlers"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	ProductHandler        *handlers.ProductHandler
	CartHandler           *handlers.CartHandler
	OrderHandler          *handlers.OrderHandler
	InteractionHandler    *handlers.InteractionHandler
	SocialHandler         *handlers.SocialHandler
	RecommendationHandler *handlers.RecommendationHandler
	ArtisanHandler        *handlers.ArtisanHandler
	AllowedOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.GET("/products", cfg.ProductHandler.List)
	router.GET("/artisans/:id/followers", cfg.SocialHandler.FollowerCount)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Storefront
	protected.GET("/products/:id", cfg.ProductHandler.Get)
	protected.POST("/cart/items", cfg.CartHandler.AddItem)
	protected.DELETE("/cart/items/:productId", cfg.CartHandler.RemoveItem)
	protected.GET("/cart", cfg.CartHandler.List)
	protected.POST("/orders", cfg.OrderHandler.Place)
	protected.GET("/orders", cfg.OrderHandler.List)
	protected.GET("/orders/:id", cfg.OrderHandler.Get)

	// Interaction graph
	protected.POST("/interactions/view", cfg.InteractionHandler.RecordView)
	protected.POST("/artisans/:id/follow", cfg.SocialHandler.Follow)
	protected.DELETE("/artisans/:id/follow", cfg.SocialHandler.Unfollow)
	protected.GET("/recommendations", cfg.RecommendationHandler.List)

	// Artisan dashboard
	artisan := protected.Group("/artisan")
	artisan.Use(cfg.AuthMiddleware.RequireArtisan())
	artisan.POST("/products", cfg.ProductHandler.Create)
	artisan.GET("/dashboard", cfg.ArtisanHandler.Dashboard)

	return router
}
