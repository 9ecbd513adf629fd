package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/server/http/dto"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

// AuthHandler processes admin login.
type AuthHandler struct {
	facade   AuthFacade
	tokenTTL time.Duration
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{facade: facade, tokenTTL: tokenTTL}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, int(h.tokenTTL.Seconds()))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
