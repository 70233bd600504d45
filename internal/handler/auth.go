package handler

import (
	"net/http"

	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/internal/dto"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	provider auth.Provider
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(provider auth.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// SignUp registers an account and sends the verification mail.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Email and password are required."})
		return
	}
	user, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SignUpResponse{
		Message: "Signup successful! Please verify your email.",
		User:    user,
	})
}

// SignIn exchanges credentials for a token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Email and password are required."})
		return
	}
	session, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SignInResponse{Message: "Login successful", Session: session})
}

// Verify activates the account behind an emailed token.
func (h *AuthHandler) Verify(c *gin.Context) {
	if err := h.provider.Verify(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified successfully."})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*model.User)
	c.JSON(http.StatusOK, dto.UserResponse{User: user})
}
