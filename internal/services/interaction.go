package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
)

// InteractionService records view and purchase events into the interaction
// graph. Recording is best-effort from the caller's point of view: a store
// failure comes back as a recoverable error and must never abort the user
// flow that triggered it.
type InteractionService interface {
	RecordView(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error
	RecordPurchase(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error
}

type interactionService struct {
	store graph.Store
	log   *logger.Logger
}

func NewInteractionService(store graph.Store, log *logger.Logger) InteractionService {
	serviceLog := log.With("service", "InteractionService")
	return &interactionService{store: store, log: serviceLog}
}

func (is *interactionService) RecordView(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error {
	if err := validateInteraction(userID, product); err != nil {
		return err
	}
	if err := is.store.RecordView(ctx, userID, product); err != nil {
		is.log.Warn("failed to record view", "user_id", userID, "product_id", product.ID, "error", err)
		return err
	}
	return nil
}

func (is *interactionService) RecordPurchase(ctx context.Context, userID uuid.UUID, product graph.ProductRef) error {
	if err := validateInteraction(userID, product); err != nil {
		return err
	}
	if err := is.store.RecordPurchase(ctx, userID, product); err != nil {
		is.log.Warn("failed to record purchase", "user_id", userID, "product_id", product.ID, "error", err)
		return err
	}
	return nil
}

func validateInteraction(userID uuid.UUID, product graph.ProductRef) error {
	if userID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("a user id is required to record an interaction"))
	}
	if product.ID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("a product id is required to record an interaction"))
	}
	return nil
}
