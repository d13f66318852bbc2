package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
)

// downStore simulates an unreachable graph server.
type downStore struct{}

func (downStore) RecordView(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error {
	return apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}
func (downStore) RecordPurchase(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error {
	return apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}
func (downStore) Follow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	return apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}
func (downStore) Unfollow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	return apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}
func (downStore) FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	return 0, apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}
func (downStore) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return nil, apierr.StoreUnavailable(fmt.Errorf("connection refused"))
}

func TestRecordViewValidatesIDs(t *testing.T) {
	svc := NewInteractionService(graph.NewMemoryStore(), testLogger(t))
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  uuid.UUID
		product graph.ProductRef
	}{
		{name: "missing_user", userID: uuid.Nil, product: graph.ProductRef{ID: uuid.New()}},
		{name: "missing_product", userID: uuid.New(), product: graph.ProductRef{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.RecordView(ctx, tc.userID, tc.product)
			if !apierr.IsCode(err, apierr.CodeInvalidInput) {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}
}

func TestRecordPurchaseSurfacesStoreOutageAsRecoverable(t *testing.T) {
	svc := NewInteractionService(downStore{}, testLogger(t))

	err := svc.RecordPurchase(context.Background(), uuid.New(), graph.ProductRef{ID: uuid.New(), Name: "X"})
	if !apierr.IsCode(err, apierr.CodeStoreUnavailable) {
		t.Fatalf("expected store_unavailable, got %v", err)
	}
}

func TestRecordViewAndPurchaseSharedProduct(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := NewInteractionService(store, testLogger(t))
	ctx := context.Background()
	user := uuid.New()
	product := graph.ProductRef{ID: uuid.New(), Name: "Bol", Category: "Bois"}

	if err := svc.RecordView(ctx, user, product); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := svc.RecordPurchase(ctx, user, product); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	// Both edge types may exist for the same pair without conflict.
	if err := svc.RecordView(ctx, user, product); err != nil {
		t.Fatalf("repeat RecordView: %v", err)
	}
}
