package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/atelierlink/marketplace-backend/internal/apierr"
	"github.com/atelierlink/marketplace-backend/internal/services"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
		ShopName  string `json:"shop_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	user := &types.User{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      body.Role,
		ShopName:  body.ShopName,
	}
	created, err := ah.authService.RegisterUser(c.Request.Context(), user)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"user": created})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, apierr.InvalidInput(fmt.Errorf("invalid request body")))
		return
	}
	token, user, err := ah.authService.LoginUser(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"token": token, "user": user})
}
