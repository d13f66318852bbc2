package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/middleware"
	"github.com/atelierlink/marketplace-backend/internal/services"
)

type SocialHandler struct {
	socialService services.SocialService
}

func NewSocialHandler(socialService services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (sh *SocialHandler) Follow(c *gin.Context) {
	artisanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid artisan id")))
		return
	}
	if err := sh.socialService.FollowArtisan(c.Request.Context(), middleware.UserIDFrom(c), artisanID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": true})
}

func (sh *SocialHandler) Unfollow(c *gin.Context) {
	artisanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid artisan id")))
		return
	}
	if err := sh.socialService.UnfollowArtisan(c.Request.Context(), middleware.UserIDFrom(c), artisanID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": false})
}

func (sh *SocialHandler) FollowerCount(c *gin.Context) {
	artisanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid artisan id")))
		return
	}
	count, err := sh.socialService.FollowerCount(c.Request.Context(), artisanID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"followers": count})
}
