package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(0)"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Product{}, &types.Order{}, &types.OrderItem{}, &types.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB, stock int) (*types.User, *types.Product) {
	t.Helper()
	artisan := &types.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@atelier.test",
		Password:  "x",
		FirstName: "Marie",
		LastName:  "Dubois",
		Role:      types.RoleArtisan,
	}
	if err := db.Create(artisan).Error; err != nil {
		t.Fatalf("create artisan: %v", err)
	}
	product := &types.Product{
		ID:         uuid.New(),
		ArtisanID:  artisan.ID,
		Name:       "Planche en noyer",
		Category:   "Bois",
		PriceCents: 4500,
		Stock:      stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return artisan, product
}

func newOrderService(t *testing.T, db *gorm.DB, store graph.Store) OrderService {
	t.Helper()
	log := testLogger(t)
	return NewOrderService(
		db,
		log,
		repos.NewOrderRepo(db, log),
		repos.NewProductRepo(db, log),
		repos.NewCartItemRepo(db, log),
		NewInteractionService(store, log),
	)
}

func TestPlaceOrderDecrementsStockAndRecordsPurchase(t *testing.T) {
	db := testDB(t)
	_, product := seedCatalog(t, db, 5)
	store := graph.NewMemoryStore()
	svc := newOrderService(t, db, store)
	ctx := context.Background()
	buyer := uuid.New()

	order, err := svc.PlaceOrder(ctx, buyer, []OrderLine{{ProductID: product.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.TotalCents != 9000 {
		t.Fatalf("expected total 9000, got %d", order.TotalCents)
	}

	var reloaded types.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 3 {
		t.Fatalf("expected stock 3 after order, got %d", reloaded.Stock)
	}

	// The purchase shows up in the interaction graph: a second buyer of
	// the same product gets no recommendation yet, but a co-buyer path
	// exists once they interact.
	ids, err := store.Recommend(ctx, buyer, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("sole buyer should get no recommendations, got %v", ids)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := testDB(t)
	_, product := seedCatalog(t, db, 1)
	svc := newOrderService(t, db, graph.NewMemoryStore())

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), []OrderLine{{ProductID: product.ID, Quantity: 3}})
	if !apierr.IsCode(err, apierr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation for insufficient stock, got %v", err)
	}

	var reloaded types.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 1 {
		t.Fatalf("stock must be untouched after failed order, got %d", reloaded.Stock)
	}
}

func TestPlaceOrderSucceedsWhenGraphDown(t *testing.T) {
	db := testDB(t)
	_, product := seedCatalog(t, db, 2)
	svc := newOrderService(t, db, downStore{})

	order, err := svc.PlaceOrder(context.Background(), uuid.New(), []OrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("order must not fail because interaction tracking failed: %v", err)
	}
	if order == nil || len(order.Items) != 1 {
		t.Fatalf("expected a committed order with one item, got %+v", order)
	}
}

func TestPlaceOrderValidatesLines(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(t, db, graph.NewMemoryStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		lines []OrderLine
	}{
		{name: "empty", lines: nil},
		{name: "zero_quantity", lines: []OrderLine{{ProductID: uuid.New(), Quantity: 0}}},
		{name: "missing_product", lines: []OrderLine{{Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, uuid.New(), tc.lines)
			if !apierr.IsCode(err, apierr.CodeInvalidInput) {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}
}
