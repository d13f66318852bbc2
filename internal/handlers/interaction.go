package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

// InteractionHandler exposes explicit interaction recording for clients
// that track views outside the product detail endpoint (e.g. gallery
// impressions on the storefront).
type InteractionHandler struct {
	interactions services.InteractionService
}

func NewInteractionHandler(interactions services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

func (ih *InteractionHandler) RecordView(c *gin.Context) {
	var body struct {
		ProductID uuid.UUID `json:"product_id"`
		Name      string    `json:"name"`
		Category  string    `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	ref := graph.ProductRef{ID: body.ProductID, Name: body.Name, Category: body.Category}
	if err := ih.interactions.RecordView(c.Request.Context(), middleware.UserIDFrom(c), ref); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}
