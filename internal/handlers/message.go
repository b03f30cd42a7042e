package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/realtime"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

// MessageHandler manages direct messages between subscribers and creators.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	sessionRepo repositories.SessionRepository
	hub         *ws.Hub
	feed        *realtime.Feed
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, sessionRepo repositories.SessionRepository, hub *ws.Hub, feed *realtime.Feed) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, sessionRepo: sessionRepo, hub: hub, feed: feed}
}

// PostMessage appends a message to a conversation and broadcasts it. Sending
// requires an open paid session between the pair, in either direction.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderID := userIDFromContext(c)
	if senderID == req.RecipientID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}

	if !h.hasOpenSession(c, senderID, req.RecipientID) {
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), senderID, req.RecipientID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	pairKey := ws.PairKey(senderID, req.RecipientID)
	h.hub.BroadcastChatMessage(pairKey, msg)
	h.feed.PublishChatMessage(context.WithoutCancel(c.Request.Context()), pairKey, msg)

	c.JSON(http.StatusCreated, msg)
}

// GetConversation returns every message between the caller and a peer,
// oldest first.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	peerID := c.Param("peer_id")
	userID := userIDFromContext(c)

	msgs, err := h.messageRepo.GetConversation(c.Request.Context(), userID, peerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// hasOpenSession checks for an open paid session between the two users in
// either direction. It writes the error response itself when there is none.
func (h *MessageHandler) hasOpenSession(c *gin.Context, userA, userB string) bool {
	for _, pair := range [][2]string{{userA, userB}, {userB, userA}} {
		_, err := h.sessionRepo.FindOpenSession(c.Request.Context(), pair[0], pair[1])
		if err == nil {
			return true
		}
		if !errors.Is(err, repositories.ErrSessionNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify session"})
			return false
		}
	}
	c.JSON(http.StatusPaymentRequired, gin.H{"error": "no open paid session with this user"})
	return false
}
