package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/clients/redis"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/repos"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

// RecommendationService computes "people who interacted with what you
// interacted with also interacted with" candidates and hydrates them into
// product records for display.
type RecommendationService interface {
	// Recommend returns up to limit distinct candidate product IDs
	// (default 10 when limit <= 0), ordered by descending co-occurrence.
	Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)

	// RecommendProducts resolves the candidates against the product
	// store. IDs with no surviving catalog row are dropped silently; the
	// engine's ordering is preserved through hydration.
	RecommendProducts(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Product, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	store       graph.Store
	productRepo repos.ProductRepo
	cache       redis.RecommendationCache
}

// NewRecommendationService wires the engine. cache may be nil, in which
// case every call recomputes from the live graph.
func NewRecommendationService(db *gorm.DB, log *logger.Logger, store graph.Store, productRepo repos.ProductRepo, cache redis.RecommendationCache) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:          db,
		log:         serviceLog,
		store:       store,
		productRepo: productRepo,
		cache:       cache,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput(fmt.Errorf("a user id is required for recommendations"))
	}
	if limit <= 0 {
		limit = graph.DefaultRecommendLimit
	}

	if rs.cache != nil {
		if ids, ok := rs.cache.Get(ctx, userID, limit); ok {
			return ids, nil
		}
	}

	ids, err := rs.store.Recommend(ctx, userID, limit)
	if err != nil {
		rs.log.Warn("recommendation traversal failed", "user_id", userID, "error", err)
		return nil, err
	}

	if rs.cache != nil {
		rs.cache.Set(ctx, userID, limit, ids)
	}
	return ids, nil
}

func (rs *recommendationService) RecommendProducts(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Product, error) {
	ids, err := rs.Recommend(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*types.Product{}, nil
	}

	rows, err := rs.productRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("hydrate recommendations: %w", err))
	}

	// The set lookup does not preserve candidate order; re-sort to it.
	byID := make(map[uuid.UUID]*types.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]*types.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
