package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	var body struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	item, err := ch.cartService.AddItem(c.Request.Context(), middleware.UserIDFrom(c), body.ProductID, body.Quantity)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (ch *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid product id")))
		return
	}
	if err := ch.cartService.RemoveItem(c.Request.Context(), middleware.UserIDFrom(c), productID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (ch *CartHandler) List(c *gin.Context) {
	items, err := ch.cartService.ListItems(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}
