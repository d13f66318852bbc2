package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

type ArtisanHandler struct {
	productService services.ProductService
	socialService  services.SocialService
}

func NewArtisanHandler(productService services.ProductService, socialService services.SocialService) *ArtisanHandler {
	return &ArtisanHandler{productService: productService, socialService: socialService}
}

// Dashboard aggregates the artisan's catalog with their follower count
// from the social graph.
func (ah *ArtisanHandler) Dashboard(c *gin.Context) {
	artisanID := middleware.UserIDFrom(c)

	products, err := ah.productService.ListArtisanProducts(c.Request.Context(), artisanID)
	if err != nil {
		RespondError(c, err)
		return
	}
	followers, err := ah.socialService.FollowerCount(c.Request.Context(), artisanID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"products":  products,
		"followers": followers,
	})
}
