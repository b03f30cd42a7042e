package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/billing"
	"github.com/TanishqPratap/content-oasis-app/internal/meter"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/realtime"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/telemetry"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

// SessionHandler manages the metered paid-chat ledger.
type SessionHandler struct {
	sessionRepo repositories.SessionRepository
	profileRepo repositories.ProfileRepository
	hub         *ws.Hub
	feed        *realtime.Feed
	emitter     *telemetry.AuditEmitter
}

// NewSessionHandler builds a SessionHandler.
func NewSessionHandler(sessionRepo repositories.SessionRepository, profileRepo repositories.ProfileRepository, hub *ws.Hub, feed *realtime.Feed, emitter *telemetry.AuditEmitter) *SessionHandler {
	return &SessionHandler{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		hub:         hub,
		feed:        feed,
		emitter:     emitter,
	}
}

// StartSession opens a metered session with a creator, or resumes the open
// one if the pair already has it. Elapsed time is always re-derived from
// session_start, so resuming needs no stored counter.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req struct {
		CreatorID  string   `json:"creator_id" binding:"required"`
		HourlyRate *float64 `json:"hourly_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscriberID := userIDFromContext(c)
	if subscriberID == req.CreatorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot start a session with yourself"})
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

	rate := 0.0
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	} else if creator.ChatRate != nil {
		rate = *creator.ChatRate
	}
	if rate <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly rate must be positive"})
		return
	}

	if session, err := h.sessionRepo.FindOpenSession(c.Request.Context(), subscriberID, req.CreatorID); err == nil {
		reading := meter.SnapshotAt(session.SessionStart, session.HourlyRate, time.Now())
		c.JSON(http.StatusOK, gin.H{"session": session, "resumed": true, "meter": reading})
		return
	} else if !errors.Is(err, repositories.ErrSessionNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up open session"})
		return
	}

	session, err := h.sessionRepo.CreateSession(c.Request.Context(), subscriberID, req.CreatorID, rate)
	if errors.Is(err, repositories.ErrSessionExists) {
		// Lost a race with a concurrent start; resume the session that won.
		session, err = h.sessionRepo.FindOpenSession(c.Request.Context(), subscriberID, req.CreatorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up open session"})
			return
		}
		reading := meter.SnapshotAt(session.SessionStart, session.HourlyRate, time.Now())
		c.JSON(http.StatusOK, gin.H{"session": session, "resumed": true, "meter": reading})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	observability.IncSessionEvent("started")
	h.notifySession(c, session, models.SessionEvent{Type: "session_started", Session: &session},
		fmt.Sprintf("Chat session started with %s at $%.2f/hour", creator.Username, rate))

	c.JSON(http.StatusCreated, gin.H{"session": session, "resumed": false, "meter": meter.SnapshotAt(session.SessionStart, rate, time.Now())})
}

// CloseSession settles an open session. The total is fixed exactly once; a
// second close is rejected without touching the stored amount.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := userIDFromContext(c)

	existing, err := h.sessionRepo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondRepoError(c, err, "failed to load session")
		return
	}
	if existing.SubscriberID != userID && existing.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a session participant"})
		return
	}

	session, err := h.sessionRepo.CloseSession(c.Request.Context(), sessionID)
	if err != nil {
		respondRepoError(c, err, "failed to close session")
		return
	}

	duration := session.SessionEnd.Sub(session.SessionStart)
	total := 0.0
	if session.TotalAmount != nil {
		total = *session.TotalAmount
	}

	observability.IncSessionEvent("closed")
	observability.AddSessionRevenue(total)
	h.notifySession(c, session, models.SessionEvent{
		Type:     "session_ended",
		Session:  &session,
		Duration: billing.FormatDuration(duration),
		Cost:     total,
	}, fmt.Sprintf("Chat session ended. Total time: %s. Cost: $%.2f", billing.FormatDuration(duration), total))

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ListSessions returns the sessions the caller participates in.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionRepo.ListSessionsForUser(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// MeterSnapshot returns the live duration/cost derivation for an open
// session. The value is derived from session_start at request time; clients
// tick it locally between polls.
func (h *SessionHandler) MeterSnapshot(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := userIDFromContext(c)

	session, err := h.sessionRepo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondRepoError(c, err, "failed to load session")
		return
	}
	if session.SubscriberID != userID && session.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a session participant"})
		return
	}
	if !session.Open() {
		c.JSON(http.StatusConflict, gin.H{"error": "session already closed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meter": meter.SnapshotAt(session.SessionStart, session.HourlyRate, time.Now())})
}

func (h *SessionHandler) notifySession(c *gin.Context, session models.ChatSession, event models.SessionEvent, text string) {
	pairKey := ws.PairKey(session.SubscriberID, session.CreatorID)
	h.hub.BroadcastSessionEvent(pairKey, event)
	h.feed.PublishSessionEvent(context.WithoutCancel(c.Request.Context()), pairKey, event)
	h.emitter.Emit(c.Request.Context(), "INFO", text, requestIDFromContext(c), auditUserID(c))

	_ = observability.PublishEvent(c.Request.Context(), observability.RoutingKeySessions, observability.EventEnvelope{
		EventType: "session_events",
		EventName: event.Type,
		Payload:   event,
	}, observability.BuildHeaders(requestIDFromContext(c), ""))
}
