package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

type ProductService interface {
	CreateProduct(ctx context.Context, artisanID uuid.UUID, product *types.Product) (*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	ListProducts(ctx context.Context, category string, limit, offset int) ([]*types.Product, error)
	ListArtisanProducts(ctx context.Context, artisanID uuid.UUID) ([]*types.Product, error)
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
	userRepo    repos.UserRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, userRepo repos.UserRepo) ProductService {
	serviceLog := log.With("service", "ProductService")
	return &productService{
		db:          db,
		log:         serviceLog,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (ps *productService) CreateProduct(ctx context.Context, artisanID uuid.UUID, product *types.Product) (*types.Product, error) {
	if product == nil {
		return nil, apierr.InvalidInput(fmt.Errorf("no product given"))
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, apierr.InvalidInput(fmt.Errorf("a product name is required"))
	}
	if product.PriceCents < 0 {
		return nil, apierr.InvalidInput(fmt.Errorf("price cannot be negative"))
	}

	owners, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{artisanID})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("lookup artisan: %w", err))
	}
	if len(owners) == 0 || !owners[0].IsArtisan() {
		return nil, apierr.InvalidOperation(fmt.Errorf("only artisans can create products"))
	}

	product.ID = uuid.New()
	product.ArtisanID = artisanID
	if _, err := ps.productRepo.Create(ctx, nil, []*types.Product{product}); err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create product: %w", err))
	}
	return product, nil
}

func (ps *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("product not found"))
		}
		return nil, apierr.StoreUnavailable(fmt.Errorf("get product: %w", err))
	}
	return product, nil
}

func (ps *productService) ListProducts(ctx context.Context, category string, limit, offset int) ([]*types.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	products, err := ps.productRepo.List(ctx, nil, strings.TrimSpace(category), limit, offset)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func (ps *productService) ListArtisanProducts(ctx context.Context, artisanID uuid.UUID) ([]*types.Product, error) {
	products, err := ps.productRepo.ListByArtisan(ctx, nil, artisanID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list artisan products: %w", err))
	}
	return products, nil
}
