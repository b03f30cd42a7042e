package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/telemetry"
)

// SubscriptionHandler manages recurring subscriptions and one-off tips.
type SubscriptionHandler struct {
	subscriptionRepo repositories.SubscriptionRepository
	profileRepo      repositories.ProfileRepository
	emitter          *telemetry.AuditEmitter
}

// NewSubscriptionHandler builds a SubscriptionHandler.
func NewSubscriptionHandler(subscriptionRepo repositories.SubscriptionRepository, profileRepo repositories.ProfileRepository, emitter *telemetry.AuditEmitter) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionRepo: subscriptionRepo, profileRepo: profileRepo, emitter: emitter}
}

// Subscribe opens a 30-day subscription to a creator, or returns the active
// one if the pair already has it.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req struct {
		CreatorID string `json:"creator_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscriberID := userIDFromContext(c)
	if subscriberID == req.CreatorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot subscribe to yourself"})
		return
	}

	creator, err := h.profileRepo.GetProfile(c.Request.Context(), req.CreatorID)
	if err != nil {
		respondRepoError(c, err, "failed to load creator")
		return
	}
	if creator.Role != models.RoleCreator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile is not a creator"})
		return
	}

	if sub, err := h.subscriptionRepo.FindActiveSubscription(c.Request.Context(), subscriberID, req.CreatorID); err == nil {
		c.JSON(http.StatusOK, gin.H{"subscription": sub, "resumed": true})
		return
	} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up subscription"})
		return
	}

	sub, err := h.subscriptionRepo.Subscribe(c.Request.Context(), subscriberID, req.CreatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("Subscribed to %s", creator.Username), requestIDFromContext(c), auditUserID(c))
	c.JSON(http.StatusCreated, gin.H{"subscription": sub, "resumed": false})
}

// Cancel marks the caller's active subscription to a creator canceled.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	creatorID := c.Param("creator_id")
	subscriberID := userIDFromContext(c)

	sub, err := h.subscriptionRepo.Cancel(c.Request.Context(), subscriberID, creatorID)
	if err != nil {
		respondRepoError(c, err, "failed to cancel subscription")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// ListSubscriptions returns the caller's subscriptions.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.subscriptionRepo.ListForSubscriber(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// CreateTip records a one-off tip to a creator.
func (h *SubscriptionHandler) CreateTip(c *gin.Context) {
	var req struct {
		CreatorID string  `json:"creator_id" binding:"required"`
		ContentID *string `json:"content_id"`
		Amount    float64 `json:"amount" binding:"required"`
		Message   *string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tip amount must be positive"})
		return
	}

	tipperID := userIDFromContext(c)
	if tipperID == req.CreatorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot tip yourself"})
		return
	}

	tip, err := h.subscriptionRepo.CreateTip(c.Request.Context(), models.Tip{
		TipperID:  tipperID,
		CreatorID: req.CreatorID,
		ContentID: req.ContentID,
		Amount:    req.Amount,
		Message:   req.Message,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record tip"})
		return
	}

	_ = observability.PublishEvent(c.Request.Context(), observability.RoutingKeyTips, observability.EventEnvelope{
		EventType: "tip_events",
		EventName: "tip_created",
		Payload:   tip,
	}, observability.BuildHeaders(requestIDFromContext(c), ""))

	c.JSON(http.StatusCreated, tip)
}

// ListTips returns the tips the calling creator has received.
func (h *SubscriptionHandler) ListTips(c *gin.Context) {
	tips, err := h.subscriptionRepo.ListTipsForCreator(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
