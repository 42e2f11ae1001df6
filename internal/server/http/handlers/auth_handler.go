package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/server/http/dto"
	"github.com/polkiloo/studiodesk/internal/server/http/middleware"
)

// AuthHandler processes admin login.
type AuthHandler struct {
	facade AdminFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AdminFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(http.StatusUnauthorized)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
}
