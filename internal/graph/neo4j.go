package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/neo4jdb"
)

// Neo4jStore runs the interaction graph on a Neo4j server. Each operation
// opens its own session and closes it before returning; writes go through
// managed transactions so a single edge merge is atomic.
type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) *Neo4jStore {
	return &Neo4jStore{
		client: client,
		log:    log.With("store", "Neo4jGraphStore"),
	}
}

func (s *Neo4jStore) RecordView(ctx context.Context, userID uuid.UUID, product ProductRef) error {
	return s.recordInteraction(ctx, userID, product, "VIEWED")
}

func (s *Neo4jStore) RecordPurchase(ctx context.Context, userID uuid.UUID, product ProductRef) error {
	return s.recordInteraction(ctx, userID, product, "BOUGHT")
}

func (s *Neo4jStore) recordInteraction(ctx context.Context, userID uuid.UUID, product ProductRef, rel string) error {
	if userID == uuid.Nil || product.ID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: user and product ids required"))
	}

	// rel is one of two literals owned by this file, never caller input.
	// The FOREACH over a 0/1-element list makes the category merge
	// conditional without a second round trip.
	query := fmt.Sprintf(`
MERGE (u:User {id: $user_id})
MERGE (p:Product {id: $product_id})
SET p.name = $product_name
MERGE (u)-[:%s]->(p)
FOREACH (cat IN CASE WHEN $category = '' THEN [] ELSE [$category] END |
    MERGE (c:Category {name: cat})
    MERGE (p)-[:HAS_CATEGORY]->(c)
)
`, rel)

	params := map[string]any{
		"user_id":      userID.String(),
		"product_id":   product.ID.String(),
		"product_name": product.Name,
		"category":     product.Category,
	}
	return s.write(ctx, query, params)
}

func (s *Neo4jStore) Follow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if followerID == uuid.Nil || artisanID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: follower and artisan ids required"))
	}
	query := `
MERGE (f:User {id: $follower_id})
MERGE (a:User {id: $artisan_id})
MERGE (f)-[:FOLLOWS]->(a)
`
	params := map[string]any{
		"follower_id": followerID.String(),
		"artisan_id":  artisanID.String(),
	}
	return s.write(ctx, query, params)
}

func (s *Neo4jStore) Unfollow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if followerID == uuid.Nil || artisanID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: follower and artisan ids required"))
	}
	query := `
MATCH (f:User {id: $follower_id})-[r:FOLLOWS]->(a:User {id: $artisan_id})
DELETE r
`
	params := map[string]any{
		"follower_id": followerID.String(),
		"artisan_id":  artisanID.String(),
	}
	return s.write(ctx, query, params)
}

func (s *Neo4jStore) FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	if artisanID == uuid.Nil {
		return 0, apierr.InvalidInput(fmt.Errorf("graph: artisan id required"))
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	session := s.newSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (:User)-[r:FOLLOWS]->(a:User {id: $artisan_id})
RETURN count(r) AS followers
`, map[string]any{"artisan_id": artisanID.String()})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		count, _ := record.Get("followers")
		n, ok := count.(int64)
		if !ok {
			return int64(0), nil
		}
		return n, nil
	})
	if err != nil {
		return 0, apierr.StoreUnavailable(fmt.Errorf("graph: follower count: %w", err))
	}
	return result.(int64), nil
}

func (s *Neo4jStore) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput(fmt.Errorf("graph: user id required"))
	}
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	session := s.newSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (me:User {id: $user_id})-[:VIEWED|BOUGHT]->(seed:Product)
MATCH (other:User)-[:VIEWED|BOUGHT]->(seed)
WHERE other.id <> $user_id
MATCH (other)-[:VIEWED|BOUGHT]->(candidate:Product)
WHERE candidate <> seed
  AND NOT (me)-[:VIEWED|BOUGHT]->(candidate)
WITH DISTINCT seed, other, candidate
RETURN candidate.id AS id, count(*) AS paths
ORDER BY paths DESC, id ASC
LIMIT $limit
`, map[string]any{"user_id": userID.String(), "limit": limit})
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, limit)
		for res.Next(ctx) {
			raw, ok := res.Record().Get("id")
			if !ok {
				continue
			}
			if id, ok := raw.(string); ok {
				ids = append(ids, id)
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return ids, nil
	})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("graph: recommend traversal: %w", err))
	}

	raw := rows.([]string)
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			s.log.Warn("skipping malformed product id from graph", "value", r)
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Neo4jStore) write(ctx context.Context, query string, params map[string]any) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	session := s.newSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("graph: write: %w", err))
	}
	return nil
}

func (s *Neo4jStore) newSession(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.client.Database,
	})
}

// bound caps every graph query so a dense traversal cannot hang a request.
func (s *Neo4jStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.client.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.client.QueryTimeout)
}
