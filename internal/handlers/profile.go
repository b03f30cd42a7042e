package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// ProfileHandler serves account lookup and self-service profile updates.
type ProfileHandler struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// Me returns the authenticated caller's own profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileRepo.GetProfile(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe patches the mutable fields of the caller's profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req struct {
		DisplayName       *string  `json:"display_name"`
		Bio               *string  `json:"bio"`
		AvatarURL         *string  `json:"avatar_url"`
		ChatRate          *float64 `json:"chat_rate"`
		SubscriptionPrice *float64 `json:"subscription_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ChatRate != nil && *req.ChatRate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_rate must not be negative"})
		return
	}
	if req.SubscriptionPrice != nil && *req.SubscriptionPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription_price must not be negative"})
		return
	}

	profile, err := h.profileRepo.GetProfile(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}

	if req.DisplayName != nil {
		profile.DisplayName = req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.ChatRate != nil {
		profile.ChatRate = req.ChatRate
	}
	if req.SubscriptionPrice != nil {
		profile.SubscriptionPrice = req.SubscriptionPrice
	}

	updated, err := h.profileRepo.UpdateProfile(c.Request.Context(), profile)
	if err != nil {
		respondRepoError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetProfile returns a profile by id.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileRepo.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListCreators returns every creator account for discovery.
func (h *ProfileHandler) ListCreators(c *gin.Context) {
	creators, err := h.profileRepo.ListCreators(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load creators"})
		return
	}
	if creators == nil {
		creators = []models.Profile{}
	}
	c.JSON(http.StatusOK, gin.H{"creators": creators})
}
