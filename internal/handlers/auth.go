package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/TanishqPratap/content-oasis-app/internal/auth"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// AuthHandler manages account signup and signin.
type AuthHandler struct {
	profileRepo repositories.ProfileRepository
	tokens      *auth.TokenManager
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(profileRepo repositories.ProfileRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{profileRepo: profileRepo, tokens: tokens}
}

// Signup registers a new profile and returns a signed token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleSubscriber
	}
	if !role.Valid() || role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be creator or subscriber"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	profile, err := h.profileRepo.CreateProfile(c.Request.Context(), req.Email, req.Username, string(hash), role)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email or username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		return
	}

	token, err := h.tokens.Issue(profile.ID, string(profile.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

// Signin verifies credentials and returns a signed token.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileRepo.GetProfileByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(profile.ID, string(profile.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}
