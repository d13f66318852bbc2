package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atelierlink/marketplace-backend/internal/clients/redis"
	"github.com/atelierlink/marketplace-backend/internal/db"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/handlers"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/neo4jdb"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/server"
	"github.com/atelierlink/marketplace-backend/internal/services"
	"github.com/atelierlink/marketplace-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Graph store: Neo4j when configured, in-memory adjacency otherwise.
	var graphStore graph.Store
	neo4jClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	if neo4jClient != nil {
		defer neo4jClient.Close(context.Background())
		neo4jClient.EnsureSchema(context.Background())
		graphStore = graph.NewNeo4jStore(neo4jClient, log)
		log.Info("Interaction graph backed by Neo4j")
	} else {
		graphStore = graph.NewMemoryStore()
		log.Warn("NEO4J_URI not set, interaction graph is in-memory and not persisted")
	}

	// Recommendation cache (optional)
	recCache, err := redis.NewRecommendationCache(log)
	if err != nil {
		log.Warn("Redis cache init failed, recommendations will not be cached", "error", err)
		recCache = nil
	}
	if recCache != nil {
		defer recCache.Close()
	}

	// Repos
	userRepo := repos.NewUserRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)
	cartItemRepo := repos.NewCartItemRepo(thePG, log)

	// Services
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	interactionService := services.NewInteractionService(graphStore, log)
	socialService := services.NewSocialService(graphStore, log)
	recommendationService := services.NewRecommendationService(thePG, log, graphStore, productRepo, recCache)
	productService := services.NewProductService(thePG, log, productRepo, userRepo)
	cartService := services.NewCartService(thePG, log, cartItemRepo, productRepo)
	orderService := services.NewOrderService(thePG, log, orderRepo, productRepo, cartItemRepo, interactionService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(log, productService, interactionService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	socialHandler := handlers.NewSocialHandler(socialService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	artisanHandler := handlers.NewArtisanHandler(productService, socialService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		ProductHandler:        productHandler,
		CartHandler:           cartHandler,
		OrderHandler:          orderHandler,
		InteractionHandler:    interactionHandler,
		SocialHandler:         socialHandler,
		RecommendationHandler: recommendationHandler,
		ArtisanHandler:        artisanHandler,
		AllowedOrigins:        origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
