package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/graph"
	"github.com/atelierlink/marketplace-backend/internal/logger"
)

// SocialService maintains FOLLOWS edges between customers and artisans.
type SocialService interface {
	// FollowArtisan merges a FOLLOWS edge. Following yourself is an
	// invalid_operation, rejected before any write. Following twice is a
	// no-op on the second call.
	FollowArtisan(ctx context.Context, followerID, artisanID uuid.UUID) error

	// UnfollowArtisan removes the edge if present. Unfollowing someone
	// you never followed succeeds and changes nothing.
	UnfollowArtisan(ctx context.Context, followerID, artisanID uuid.UUID) error

	FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error)
}

type socialService struct {
	store graph.Store
	log   *logger.Logger
}

func NewSocialService(store graph.Store, log *logger.Logger) SocialService {
	serviceLog := log.With("service", "SocialService")
	return &socialService{store: store, log: serviceLog}
}

func (ss *socialService) FollowArtisan(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if err := validateFollowPair(followerID, artisanID); err != nil {
		return err
	}
	if err := ss.store.Follow(ctx, followerID, artisanID); err != nil {
		ss.log.Warn("failed to record follow", "follower_id", followerID, "artisan_id", artisanID, "error", err)
		return err
	}
	return nil
}

func (ss *socialService) UnfollowArtisan(ctx context.Context, followerID, artisanID uuid.UUID) error {
	if err := validateFollowPair(followerID, artisanID); err != nil {
		return err
	}
	if err := ss.store.Unfollow(ctx, followerID, artisanID); err != nil {
		ss.log.Warn("failed to remove follow", "follower_id", followerID, "artisan_id", artisanID, "error", err)
		return err
	}
	return nil
}

func (ss *socialService) FollowerCount(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	if artisanID == uuid.Nil {
		return 0, apierr.InvalidInput(fmt.Errorf("an artisan id is required"))
	}
	return ss.store.FollowerCount(ctx, artisanID)
}

func validateFollowPair(followerID, artisanID uuid.UUID) error {
	if followerID == uuid.Nil || artisanID == uuid.Nil {
		return apierr.InvalidInput(fmt.Errorf("follower and artisan ids are required"))
	}
	if followerID == artisanID {
		return apierr.InvalidOperation(fmt.Errorf("a user cannot follow themselves"))
	}
	return nil
}
