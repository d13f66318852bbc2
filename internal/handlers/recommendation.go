package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

type RecommendationHandler struct {
	recommendations services.RecommendationService
}

func NewRecommendationHandler(recommendations services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (rh *RecommendationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := rh.recommendations.RecommendProducts(c.Request.Context(), middleware.UserIDFrom(c), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"recommendations": products})
}
