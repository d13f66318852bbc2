package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

type CartService interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*types.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ListItems(ctx context.Context, userID uuid.UUID) ([]*types.CartItem, error)
}

type cartService struct {
	db           *gorm.DB
	log          *logger.Logger
	cartItemRepo repos.CartItemRepo
	productRepo  repos.ProductRepo
}

func NewCartService(db *gorm.DB, log *logger.Logger, cartItemRepo repos.CartItemRepo, productRepo repos.ProductRepo) CartService {
	serviceLog := log.With("service", "CartService")
	return &cartService{
		db:           db,
		log:          serviceLog,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (cs *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*types.CartItem, error) {
	if quantity <= 0 {
		return nil, apierr.InvalidInput(fmt.Errorf("quantity must be positive"))
	}

	product, err := cs.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("product not found"))
		}
		return nil, apierr.StoreUnavailable(fmt.Errorf("lookup product: %w", err))
	}
	if product.Stock < quantity {
		return nil, apierr.InvalidOperation(fmt.Errorf("not enough stock for %q", product.Name))
	}

	item := &types.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if _, err := cs.cartItemRepo.Upsert(ctx, nil, item); err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("add cart item: %w", err))
	}
	return item, nil
}

func (cs *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := cs.cartItemRepo.Remove(ctx, nil, userID, productID); err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("remove cart item: %w", err))
	}
	return nil
}

func (cs *cartService) ListItems(ctx context.Context, userID uuid.UUID) ([]*types.CartItem, error) {
	items, err := cs.cartItemRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list cart items: %w", err))
	}
	return items, nil
}
