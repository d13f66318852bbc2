// Package graph holds the interaction graph: User, Product and Category
// nodes connected by VIEWED, BOUGHT, HAS_CATEGORY and FOLLOWS edges, plus
// the 2-hop co-interaction traversal that powers recommendations.
package graph

import (
	"context"

	"github.com/google/uuid"
)

// ProductRef is the slice of a product the graph cares about. Name is a
// display attribute, not an identity key.
type ProductRef struct {
	ID       uuid.UUID
	Name     string
	Category string
}

// DefaultRecommendLimit is used when a caller passes limit <= 0.
const DefaultRecommendLimit = 10

// Store is the graph substrate. All writes are merge-by-key: repeating a
// call with identical arguments leaves the graph unchanged.
type Store interface {
	// RecordView ensures the user, product and (optional) category nodes
	// exist and merges a VIEWED edge from user to product.
	RecordView(ctx context.Context, userID uuid.UUID, product ProductRef) error

	// RecordPurchase is RecordView with a BOUGHT edge.
	RecordPurchase(ctx context.Context, userID uuid.UUID, product ProductRef) error

	// Follow merges a FOLLOWS edge. Self-follow rejection happens above
	// this layer, before any write is attempted.
	Follow(ctx context.Context, followerID, artisanID uuid.UUID) error

	// Unfollow removes the FOLLOWS edge if present. Removing an absent
	// edge is a no-op, not an error.
	Unfollow(ctx context.Context, followerID, artisanID uuid.UUID) error

	// FollowerCount returns the number of users following the artisan.
	FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error)

	// Recommend walks the co-interaction graph two hops out from userID:
	// products the user touched, other users who touched them, and those
	// users' other products. Candidates exclude every product the
	// requesting user already viewed or bought, are distinct, ordered by
	// descending path count (ties broken by ascending product ID) and
	// truncated to limit. A user with no history gets an empty list.
	Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
}
