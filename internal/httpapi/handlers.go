package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/credgate"
	"github.com/MrEthical07/credgate/middleware"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	engine *credgate.Engine
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// requestContext enriches the request context with caller metadata for
// audit events.
func requestContext(c *gin.Context) context.Context {
	ctx := credgate.WithClientIP(c.Request.Context(), c.ClientIP())
	return credgate.WithUserAgent(ctx, c.Request.UserAgent())
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, credgate.ErrValidation)
		return
	}

	user, err := h.engine.Register(requestContext(c), credgate.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, credgate.ErrInvalidCredentials)
		return
	}

	pair, err := h.engine.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Refresh token required"})
		return
	}

	pair, err := h.engine.Refresh(requestContext(c), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{"accessToken": pair.AccessToken}
	if pair.RefreshToken != "" {
		body["refreshToken"] = pair.RefreshToken
	}
	c.JSON(http.StatusOK, body)
}

func (h *handlers) logout(c *gin.Context) {
	subject, ok := middleware.SubjectFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization denied"})
		return
	}

	if err := h.engine.Logout(requestContext(c), subject); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *handlers) protected(c *gin.Context) {
	subject, _ := middleware.SubjectFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Protected route accessed",
		"userId":  subject,
	})
}

func (h *handlers) admin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Admin dashboard"})
}

// writeError maps the engine error taxonomy to status codes and stable
// response messages. Unknown errors collapse to a detail-free 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, credgate.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
	case errors.Is(err, credgate.ErrRoleInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
	case errors.Is(err, credgate.ErrRoleEscalation):
		c.JSON(http.StatusForbidden, gin.H{"message": "Admin role cannot be self-assigned"})
	case errors.Is(err, credgate.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
	case errors.Is(err, credgate.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, credgate.ErrRefreshInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
	case errors.Is(err, credgate.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
	case errors.Is(err, credgate.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, credgate.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
