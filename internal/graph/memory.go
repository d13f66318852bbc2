package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
)

// MemoryStore is an adjacency-index implementation of Store used when no
// NEO4J_URI is configured and by tests. Edge sets are keyed maps, so merge
// semantics fall out of map assignment: writing the same edge twice is the
// same as writing it once.
type MemoryStore struct {
	mu sync.RWMutex

	// user -> product, split by edge type; interactedBy is the reverse
	// index over the union of VIEWED and BOUGHT.
	viewed       map[uuid.UUID]map[uuid.UUID]struct{}
	bought       map[uuid.UUID]map[uuid.UUID]struct{}
	interactedBy map[uuid.UUID]map[uuid.UUID]struct{}

	follows map[uuid.UUID]map[uuid.UUID]struct{}

	productNames      map[uuid.UUID]string
	productCategories map[uuid.UUID]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		viewed:            make(map[uuid.UUID]map[uuid.UUID]struct{}),
		bought:            make(map[uuid.UUID]map[uuid.UUID]struct{}),
		interactedBy:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
		follows:           make(map[uuid.UUID]map[uuid.UUID]struct{}),
		productNames:      make(map[uuid.UUID]string),
		productCategories: make(map[uuid.UUID]map[string]struct{}),
	}
}

func (m *MemoryStore) RecordView(ctx context.Context, userID uuid.UUID, product ProductRef) error {
	return m.recordInteraction(userID, product, m.viewed)
}

func (m *MemoryStore) RecordPurchase(ctx context.Context, userID uuid.UUID, product ProductRef) error {
	return m.recordInteraction(userID, product, m.bought)
}

func (m *MemoryStore) recordInteraction(userID uuid.UUID, product ProductRef, edges map[uuid.UUID]map[uuid.UUID]struct{}) error {
	if userID == uuid.Nil || product.ID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: user and product ids required"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	addEdge(edges, userID, product.ID)
	addEdge(m.interactedBy, product.ID, userID)
	m.productNames[product.ID] = product.Name
	if product.Category != "" {
		cats := m.productCategories[product.ID]
		if cats == nil {
			cats = make(map[string]struct{})
			m.productCategories[product.ID] = cats
		}
		cats[product.Category] = struct{}{}
	}
	return nil
}

func (m *MemoryStore) Follow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if followerID == uuid.Nil || artisanID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: follower and artisan ids required"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	addEdge(m.follows, followerID, artisanID)
	return nil
}

func (m *MemoryStore) Unfollow(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if followerID == uuid.Nil || artisanID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("graph: follower and artisan ids required"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if targets, ok := m.follows[followerID]; ok {
		delete(targets, artisanID)
		if len(targets) == 0 {
			delete(m.follows, followerID)
		}
	}
	return nil
}

func (m *MemoryStore) FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	if artisanID == uuid.Nil {
		return 0, apierr.InvalidInput(fmt.Errorf("graph: artisan id required"))
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, targets := range m.follows {
		if _, ok := targets[artisanID]; ok {
			n++
		}
	}
	return n, nil
}

// Follows reports whether the FOLLOWS edge exists. Read helper for tests
// and dashboard checks; Neo4j callers get this through FollowerCount.
func (m *MemoryStore) Follows(followerID, artisanID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.follows[followerID][artisanID]
	return ok
}

func (m *MemoryStore) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput(fmt.Errorf("graph: user id required"))
	}
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	mine := m.interactionsOf(userID)
	if len(mine) == 0 {
		return []uuid.UUID{}, nil
	}

	// Depth-2 walk: seed product -> co-interacting user -> candidate.
	// Each (seed, other, candidate) triple counts as one path.
	paths := make(map[uuid.UUID]int)
	for seed := range mine {
		for other := range m.interactedBy[seed] {
			if other == userID {
				continue
			}
			for candidate := range m.interactionsOf(other) {
				if candidate == seed {
					continue
				}
				if _, already := mine[candidate]; already {
					continue
				}
				paths[candidate]++
			}
		}
	}

	candidates := make([]uuid.UUID, 0, len(paths))
	for id := range paths {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if paths[candidates[i]] != paths[candidates[j]] {
			return paths[candidates[i]] > paths[candidates[j]]
		}
		return candidates[i].String() < candidates[j].String()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// interactionsOf returns the union of a user's VIEWED and BOUGHT products.
// Caller holds at least the read lock.
func (m *MemoryStore) interactionsOf(userID uuid.UUID) map[uuid.UUID]struct{} {
	v := m.viewed[userID]
	b := m.bought[userID]
	if len(b) == 0 {
		return v
	}
	if len(v) == 0 {
		return b
	}
	union := make(map[uuid.UUID]struct{}, len(v)+len(b))
	for id := range v {
		union[id] = struct{}{}
	}
	for id := range b {
		union[id] = struct{}{}
	}
	return union
}

func addEdge(edges map[uuid.UUID]map[uuid.UUID]struct{}, from, to uuid.UUID) {
	targets := edges[from]
	if targets == nil {
		targets = make(map[uuid.UUID]struct{})
		edges[from] = targets
	}
	targets[to] = struct{}{}
}
