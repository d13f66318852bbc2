package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestFollowArtisanSelfFollowRejected(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := NewSocialService(store, testLogger(t))
	ctx := context.Background()
	user := uuid.New()

	err := svc.FollowArtisan(ctx, user, user)
	if err == nil {
		t.Fatal("expected self-follow to fail")
	}
	if !apierr.IsCode(err, apierr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation, got %v", err)
	}

	// The rejection happens before any write.
	count, err := store.FollowerCount(ctx, user)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no edge after rejected self-follow, got %d", count)
	}
}

func TestUnfollowArtisanSelfRejected(t *testing.T) {
	svc := NewSocialService(graph.NewMemoryStore(), testLogger(t))
	user := uuid.New()

	err := svc.UnfollowArtisan(context.Background(), user, user)
	if !apierr.IsCode(err, apierr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation, got %v", err)
	}
}

func TestFollowUnfollowThroughService(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := NewSocialService(store, testLogger(t))
	ctx := context.Background()
	follower := uuid.New()
	artisan := uuid.New()

	if err := svc.FollowArtisan(ctx, follower, artisan); err != nil {
		t.Fatalf("FollowArtisan: %v", err)
	}
	if err := svc.FollowArtisan(ctx, follower, artisan); err != nil {
		t.Fatalf("repeat FollowArtisan: %v", err)
	}
	count, err := svc.FollowerCount(ctx, artisan)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 follower after duplicate follow, got %d", count)
	}

	if err := svc.UnfollowArtisan(ctx, follower, artisan); err != nil {
		t.Fatalf("UnfollowArtisan: %v", err)
	}
	// Unfollowing again is still a success.
	if err := svc.UnfollowArtisan(ctx, follower, artisan); err != nil {
		t.Fatalf("repeat UnfollowArtisan: %v", err)
	}
	count, err = svc.FollowerCount(ctx, artisan)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 followers after unfollow, got %d", count)
	}
}

func TestFollowMissingIDsRejected(t *testing.T) {
	svc := NewSocialService(graph.NewMemoryStore(), testLogger(t))

	err := svc.FollowArtisan(context.Background(), uuid.Nil, uuid.New())
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}
