package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// ContentHandler manages published creator content.
type ContentHandler struct {
	contentRepo      repositories.ContentRepository
	profileRepo      repositories.ProfileRepository
	subscriptionRepo repositories.SubscriptionRepository
}

// NewContentHandler builds a ContentHandler.
func NewContentHandler(contentRepo repositories.ContentRepository, profileRepo repositories.ProfileRepository, subscriptionRepo repositories.SubscriptionRepository) *ContentHandler {
	return &ContentHandler{contentRepo: contentRepo, profileRepo: profileRepo, subscriptionRepo: subscriptionRepo}
}

// CreateContent publishes a piece of content for the calling creator. The
// media itself lives with the object-storage collaborator; only its URL is
// recorded here.
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description *string  `json:"description"`
		ContentType string   `json:"content_type" binding:"required"`
		MediaURL    *string  `json:"media_url"`
		Price       *float64 `json:"price"`
		IsPremium   bool     `json:"is_premium"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := models.ContentType(req.ContentType)
	if !contentType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_type must be text, image or video"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
		return
	}

	creatorID := userIDFromContext(c)
	profile, err := h.profileRepo.GetProfile(c.Request.Context(), creatorID)
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}
	if profile.Role != models.RoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "only creators can publish content"})
		return
	}

	created, err := h.contentRepo.CreateContent(c.Request.Context(), models.Content{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		ContentType: contentType,
		MediaURL:    req.MediaURL,
		Price:       req.Price,
		IsPremium:   req.IsPremium,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish content"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListCreatorContent returns a creator's feed. Premium items are included
// only for the creator themselves and their active subscribers.
func (h *ContentHandler) ListCreatorContent(c *gin.Context) {
	creatorID := c.Param("creator_id")
	userID := userIDFromContext(c)

	includePremium := userID == creatorID
	if !includePremium {
		_, err := h.subscriptionRepo.FindActiveSubscription(c.Request.Context(), userID, creatorID)
		if err == nil {
			includePremium = true
		} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify subscription"})
			return
		}
	}

	items, err := h.contentRepo.ListContentForCreator(c.Request.Context(), creatorID, includePremium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": items})
}
