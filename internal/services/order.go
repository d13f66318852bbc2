package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

type OrderLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine) (*types.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*types.Order, error)
}

type orderService struct {
	db           *gorm.DB
	log          *logger.Logger
	orderRepo    repos.OrderRepo
	productRepo  repos.ProductRepo
	cartItemRepo repos.CartItemRepo
	interactions InteractionService
}

func NewOrderService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo, productRepo repos.ProductRepo, cartItemRepo repos.CartItemRepo, interactions InteractionService) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{
		db:           db,
		log:          serviceLog,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartItemRepo: cartItemRepo,
		interactions: interactions,
	}
}

func (svc *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine) (*types.Order, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput(fmt.Errorf("a user id is required to place an order"))
	}
	if len(lines) == 0 {
		return nil, apierr.InvalidInput(fmt.Errorf("an order needs at least one item"))
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 {
			return nil, apierr.InvalidInput(fmt.Errorf("each order line needs a product id and a positive quantity"))
		}
	}

	order := &types.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: types.OrderStatusPlaced,
	}
	var bought []graph.ProductRef

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			product, err := svc.productRepo.GetByID(ctx, tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.NotFound(fmt.Errorf("product %s not found", line.ProductID))
				}
				return err
			}
			if err := svc.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.InvalidOperation(fmt.Errorf("not enough stock for %q", product.Name))
				}
				return err
			}
			order.Items = append(order.Items, &types.OrderItem{
				ID:             uuid.New(),
				OrderID:        order.ID,
				ProductID:      product.ID,
				Quantity:       line.Quantity,
				UnitPriceCents: product.PriceCents,
			})
			order.TotalCents += product.PriceCents * int64(line.Quantity)
			bought = append(bought, graph.ProductRef{
				ID:       product.ID,
				Name:     product.Name,
				Category: product.Category,
			})
		}
		if _, err := svc.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		return svc.cartItemRepo.ClearForUser(ctx, tx, userID)
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apierr.StoreUnavailable(fmt.Errorf("place order: %w", err))
	}

	// Interaction tracking is best-effort: a graph outage must never fail
	// an order that already committed.
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	for _, ref := range bought {
		ref := ref
		g.Go(func() error {
			if err := svc.interactions.RecordPurchase(gctx, userID, ref); err != nil {
				svc.log.Warn("purchase interaction not recorded", "user_id", userID, "product_id", ref.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return order, nil
}

func (svc *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	order, err := svc.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("order not found"))
		}
		return nil, apierr.StoreUnavailable(fmt.Errorf("get order: %w", err))
	}
	if order.UserID != userID {
		return nil, apierr.NotFound(fmt.Errorf("order not found"))
	}
	return order, nil
}

func (svc *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*types.Order, error) {
	orders, err := svc.orderRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list orders: %w", err))
	}
	return orders, nil
}
