package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (oh *OrderHandler) Place(c *gin.Context) {
	var body struct {
		Items []services.OrderLine `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	order, err := oh.orderService.PlaceOrder(c.Request.Context(), middleware.UserIDFrom(c), body.Items)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"order": order})
}

func (oh *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid order id")))
		return
	}
	order, err := oh.orderService.GetOrder(c.Request.Context(), middleware.UserIDFrom(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

func (oh *OrderHandler) List(c *gin.Context) {
	orders, err := oh.orderService.ListOrders(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"orders": orders})
}
