package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
)

func ref(id uuid.UUID, name, category string) ProductRef {
	return ProductRef{ID: id, Name: name, Category: category}
}

func TestRecordViewIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := uuid.New()
	product := uuid.New()

	for i := 0; i < 3; i++ {
		if err := store.RecordView(ctx, user, ref(product, "Bol en bois", "Bois")); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	if got := len(store.viewed[user]); got != 1 {
		t.Fatalf("expected exactly one VIEWED edge, got %d", got)
	}
	if got := len(store.interactedBy[product]); got != 1 {
		t.Fatalf("expected exactly one interacting user, got %d", got)
	}
	if got := len(store.productCategories[product]); got != 1 {
		t.Fatalf("expected exactly one category edge, got %d", got)
	}
}

func TestRecordPurchaseIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := uuid.New()
	product := uuid.New()

	for i := 0; i < 2; i++ {
		if err := store.RecordPurchase(ctx, user, ref(product, "Vase", "")); err != nil {
			t.Fatalf("RecordPurchase: %v", err)
		}
	}

	if got := len(store.bought[user]); got != 1 {
		t.Fatalf("expected exactly one BOUGHT edge, got %d", got)
	}
	if got := len(store.productCategories[product]); got != 0 {
		t.Fatalf("expected no category edge when none supplied, got %d", got)
	}
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	follower := uuid.New()
	artisan := uuid.New()

	if err := store.Follow(ctx, follower, artisan); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !store.Follows(follower, artisan) {
		t.Fatal("expected FOLLOWS edge after Follow")
	}

	// Following twice is a no-op.
	if err := store.Follow(ctx, follower, artisan); err != nil {
		t.Fatalf("second Follow: %v", err)
	}
	count, err := store.FollowerCount(ctx, artisan)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 follower, got %d", count)
	}

	if err := store.Unfollow(ctx, follower, artisan); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if store.Follows(follower, artisan) {
		t.Fatal("expected no FOLLOWS edge after Unfollow")
	}
}

func TestUnfollowAbsentEdgeIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Unfollow(ctx, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("Unfollow of absent edge should succeed, got %v", err)
	}
}

func TestRecommendEmptyHistory(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Recommend(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty recommendations for user with no history, got %d", len(got))
	}
}

func TestRecommendCoInteractionScenario(t *testing.T) {
	// User A views P1. User B views P1 then P2. A's recommendations must
	// include P2 (reached through B's co-interaction on P1) and must not
	// include P1 (seed of the path, and already A's own).
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	if err := store.RecordView(ctx, userA, ref(p1, "Planche", "Bois")); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := store.RecordView(ctx, userB, ref(p1, "Planche", "Bois")); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := store.RecordView(ctx, userB, ref(p2, "Tabouret", "Bois")); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	got, err := store.Recommend(ctx, userA, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0] != p2 {
		t.Fatalf("expected exactly [%s], got %v", p2, got)
	}
}

func TestRecommendExcludesOwnProducts(t *testing.T) {
	// A has already bought P2; even though P2 is reachable through B's
	// path, it must not come back as a recommendation.
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	_ = store.RecordView(ctx, userA, ref(p1, "P1", ""))
	_ = store.RecordPurchase(ctx, userA, ref(p2, "P2", ""))
	_ = store.RecordView(ctx, userB, ref(p1, "P1", ""))
	_ = store.RecordView(ctx, userB, ref(p2, "P2", ""))

	got, err := store.Recommend(ctx, userA, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no recommendations, got %v", got)
	}
}

func TestRecommendSoleInteractorSeesNothing(t *testing.T) {
	// A user whose products no one else touched has no co-interactors and
	// must not be recommended their own products back.
	store := NewMemoryStore()
	ctx := context.Background()
	user := uuid.New()

	_ = store.RecordView(ctx, user, ref(uuid.New(), "Solo 1", ""))
	_ = store.RecordPurchase(ctx, user, ref(uuid.New(), "Solo 2", ""))

	got, err := store.Recommend(ctx, user, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no recommendations for sole interactor, got %v", got)
	}
}

func TestRecommendLimitAndDistinct(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	seed := uuid.New()

	_ = store.RecordView(ctx, userA, ref(seed, "Seed", ""))

	// Five co-interacting users, each touching the seed plus the same
	// pool of candidate products.
	candidates := make([]uuid.UUID, 8)
	for i := range candidates {
		candidates[i] = uuid.New()
	}
	for i := 0; i < 5; i++ {
		other := uuid.New()
		_ = store.RecordView(ctx, other, ref(seed, "Seed", ""))
		for _, cand := range candidates {
			_ = store.RecordView(ctx, other, ref(cand, "Cand", ""))
		}
	}

	got, err := store.Recommend(ctx, userA, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) > 3 {
		t.Fatalf("limit exceeded: got %d entries", len(got))
	}
	seen := make(map[uuid.UUID]struct{})
	for _, id := range got {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate candidate %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestRecommendDefaultLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	seed := uuid.New()

	_ = store.RecordView(ctx, userA, ref(seed, "Seed", ""))
	other := uuid.New()
	_ = store.RecordView(ctx, other, ref(seed, "Seed", ""))
	for i := 0; i < 15; i++ {
		_ = store.RecordView(ctx, other, ref(uuid.New(), "Cand", ""))
	}

	got, err := store.Recommend(ctx, userA, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != DefaultRecommendLimit {
		t.Fatalf("expected default limit of %d, got %d", DefaultRecommendLimit, len(got))
	}
}

func TestRecommendOrdersByCoOccurrence(t *testing.T) {
	// popular is reachable through two co-interactors, niche through one;
	// popular must rank first.
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	seed := uuid.New()
	popular := uuid.New()
	niche := uuid.New()

	_ = store.RecordView(ctx, userA, ref(seed, "Seed", ""))

	other1 := uuid.New()
	_ = store.RecordView(ctx, other1, ref(seed, "Seed", ""))
	_ = store.RecordView(ctx, other1, ref(popular, "Popular", ""))
	_ = store.RecordView(ctx, other1, ref(niche, "Niche", ""))

	other2 := uuid.New()
	_ = store.RecordView(ctx, other2, ref(seed, "Seed", ""))
	_ = store.RecordView(ctx, other2, ref(popular, "Popular", ""))

	got, err := store.Recommend(ctx, userA, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %v", got)
	}
	if got[0] != popular {
		t.Fatalf("expected %s (2 paths) before %s (1 path), got %v", popular, niche, got)
	}
}

func TestConcurrentRecordsConverge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := uuid.New()
	product := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RecordView(ctx, user, ref(product, "Race", "Bois"))
			_ = store.RecordPurchase(ctx, user, ref(product, "Race", "Bois"))
		}()
	}
	wg.Wait()

	if got := len(store.viewed[user]); got != 1 {
		t.Fatalf("expected one VIEWED edge after concurrent writes, got %d", got)
	}
	if got := len(store.bought[user]); got != 1 {
		t.Fatalf("expected one BOUGHT edge after concurrent writes, got %d", got)
	}
}

func TestFollowerCountMultipleFollowers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	artisan := uuid.New()

	for i := 0; i < 4; i++ {
		_ = store.Follow(ctx, uuid.New(), artisan)
	}

	count, err := store.FollowerCount(ctx, artisan)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 followers, got %d", count)
	}
}

func TestRecommendCountsCoInteractorOnce(t *testing.T) {
	// mixed both viewed and bought dual, which is still a single
	// (seed, other, candidate) path; spread was viewed by two distinct
	// co-interactors and must rank above it.
	store := NewMemoryStore()
	ctx := context.Background()
	userA := uuid.New()
	seed := uuid.New()
	dual := uuid.New()
	spread := uuid.New()

	_ = store.RecordView(ctx, userA, ref(seed, "Seed", ""))

	mixed := uuid.New()
	_ = store.RecordView(ctx, mixed, ref(seed, "Seed", ""))
	_ = store.RecordView(ctx, mixed, ref(dual, "Dual", ""))
	_ = store.RecordPurchase(ctx, mixed, ref(dual, "Dual", ""))

	for i := 0; i < 2; i++ {
		other := uuid.New()
		_ = store.RecordView(ctx, other, ref(seed, "Seed", ""))
		_ = store.RecordView(ctx, other, ref(spread, "Spread", ""))
	}

	got, err := store.Recommend(ctx, userA, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %v", got)
	}
	if got[0] != spread {
		t.Fatalf("expected %s (2 co-interactors) before %s (1 co-interactor with both edge types), got %v", spread, dual, got)
	}
}

func TestStoreRejectsZeroValueIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id := uuid.New()

	cases := []struct {
		name string
		call func() error
	}{
		{"view nil user", func() error { return store.RecordView(ctx, uuid.Nil, ref(id, "Bol", "")) }},
		{"view nil product", func() error { return store.RecordView(ctx, id, ref(uuid.Nil, "Bol", "")) }},
		{"purchase nil user", func() error { return store.RecordPurchase(ctx, uuid.Nil, ref(id, "Bol", "")) }},
		{"follow nil follower", func() error { return store.Follow(ctx, uuid.Nil, id) }},
		{"follow nil artisan", func() error { return store.Follow(ctx, id, uuid.Nil) }},
		{"unfollow nil follower", func() error { return store.Unfollow(ctx, uuid.Nil, id) }},
		{"follower count nil artisan", func() error { _, err := store.FollowerCount(ctx, uuid.Nil); return err }},
		{"recommend nil user", func() error { _, err := store.Recommend(ctx, uuid.Nil, 10); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if !apierr.IsCode(err, apierr.CodeInvalidInput) {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}

	if len(store.viewed) != 0 || len(store.bought) != 0 || len(store.follows) != 0 {
		t.Fatalf("rejected writes must not create edges")
	}
}
