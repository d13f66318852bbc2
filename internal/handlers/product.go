package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
	interactions   services.InteractionService
}

func NewProductHandler(log *logger.Logger, productService services.ProductService, interactions services.InteractionService) *ProductHandler {
	return &ProductHandler{
		log:            log.With("handler", "ProductHandler"),
		productService: productService,
		interactions:   interactions,
	}
}

func (ph *ProductHandler) Create(c *gin.Context) {
	var body struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Category    string         `json:"category"`
		PriceCents  int64          `json:"price_cents"`
		Stock       int            `json:"stock"`
		ImageURL    string         `json:"image_url"`
		Attributes  datatypes.JSON `json:"attributes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	product := &types.Product{
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		PriceCents:  body.PriceCents,
		Stock:       body.Stock,
		ImageURL:    body.ImageURL,
		Attributes:  body.Attributes,
	}
	created, err := ph.productService.CreateProduct(c.Request.Context(), middleware.UserIDFrom(c), product)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"product": created})
}

func (ph *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	products, err := ph.productService.ListProducts(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

// Get returns a product and, for authenticated requests, records the view
// in the interaction graph. Tracking failures are logged and swallowed;
// the product response never depends on the graph store.
func (ph *ProductHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid product id")))
		return
	}
	product, err := ph.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if userID := middleware.UserIDFrom(c); userID != uuid.Nil {
		ref := graph.ProductRef{ID: product.ID, Name: product.Name, Category: product.Category}
		if err := ph.interactions.RecordView(c.Request.Context(), userID, ref); err != nil {
			ph.log.Warn("view interaction not recorded", "product_id", product.ID, "error", err)
		}
	}

	RespondOK(c, gin.H{"product": product})
}
