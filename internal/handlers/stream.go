package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/realtime"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/telemetry"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

// StreamHandler manages live streams and viewer presence.
type StreamHandler struct {
	streamRepo  repositories.StreamRepository
	profileRepo repositories.ProfileRepository
	hub         *ws.Hub
	feed        *realtime.Feed
	emitter     *telemetry.AuditEmitter
}

// NewStreamHandler builds a StreamHandler.
func NewStreamHandler(streamRepo repositories.StreamRepository, profileRepo repositories.ProfileRepository, hub *ws.Hub, feed *realtime.Feed, emitter *telemetry.AuditEmitter) *StreamHandler {
	return &StreamHandler{
		streamRepo:  streamRepo,
		profileRepo: profileRepo,
		hub:         hub,
		feed:        feed,
		emitter:     emitter,
	}
}

// CreateStream registers an offline stream for the calling creator. The
// response includes the opaque stream key; it is never exposed anywhere
// else.
func (h *StreamHandler) CreateStream(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creatorID := userIDFromContext(c)
	profile, err := h.profileRepo.GetProfile(c.Request.Context(), creatorID)
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}
	if profile.Role != models.RoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "only creators can stream"})
		return
	}

	stream, err := h.streamRepo.CreateStream(c.Request.Context(), creatorID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create stream"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"stream": stream, "stream_key": stream.StreamKey})
}

// ListMyStreams returns the calling creator's streams with their keys.
func (h *StreamHandler) ListMyStreams(c *gin.Context) {
	streams, err := h.streamRepo.ListStreamsForCreator(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load streams"})
		return
	}

	type ownedStream struct {
		models.LiveStream
		StreamKey string `json:"stream_key"`
	}
	owned := make([]ownedStream, 0, len(streams))
	for _, s := range streams {
		owned = append(owned, ownedStream{LiveStream: s, StreamKey: s.StreamKey})
	}
	c.JSON(http.StatusOK, gin.H{"streams": owned})
}

// ListLiveStreams returns every currently live stream.
func (h *StreamHandler) ListLiveStreams(c *gin.Context) {
	streams, err := h.streamRepo.ListLiveStreams(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load live streams"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"streams": streams})
}

// StartStream transitions a stream from offline to live.
func (h *StreamHandler) StartStream(c *gin.Context) {
	h.transition(c, h.streamRepo.StartStream, "stream_live", "Your stream is now live.")
}

// EndStream transitions a stream from live to ended. Ending is terminal; a
// new broadcast needs a new stream.
func (h *StreamHandler) EndStream(c *gin.Context) {
	h.transition(c, h.streamRepo.EndStream, "stream_ended", "Your stream has ended.")
}

func (h *StreamHandler) transition(c *gin.Context, op func(context.Context, string, string) (models.LiveStream, error), eventType, text string) {
	streamID := c.Param("stream_id")
	creatorID := userIDFromContext(c)

	stream, err := op(c.Request.Context(), streamID, creatorID)
	if err != nil {
		respondRepoError(c, err, "failed to update stream")
		return
	}

	event := models.StreamEvent{Type: eventType, StreamID: stream.ID, Status: stream.Status, ViewerCount: stream.ViewerCount}
	h.hub.BroadcastStreamEvent(stream.ID, event)
	h.feed.PublishStreamEvent(context.WithoutCancel(c.Request.Context()), event)
	h.emitter.Emit(c.Request.Context(), "INFO", text, requestIDFromContext(c), auditUserID(c))

	_ = observability.PublishEvent(c.Request.Context(), observability.RoutingKeyStreams, observability.EventEnvelope{
		EventType: "stream_events",
		EventName: eventType,
		Payload:   event,
	}, observability.BuildHeaders(requestIDFromContext(c), ""))

	c.JSON(http.StatusOK, gin.H{"stream": stream})
}

// JoinStream records the caller as a viewer and bumps the persisted count.
// Joining twice without leaving is a no-op that reports the current state.
func (h *StreamHandler) JoinStream(c *gin.Context) {
	streamID := c.Param("stream_id")
	viewerID := userIDFromContext(c)

	stream, err := h.streamRepo.JoinStream(c.Request.Context(), streamID, viewerID)
	if errors.Is(err, repositories.ErrAlreadyInStream) {
		current, getErr := h.streamRepo.GetStream(c.Request.Context(), streamID)
		if getErr != nil {
			respondRepoError(c, getErr, "failed to load stream")
			return
		}
		c.JSON(http.StatusOK, gin.H{"stream": current, "joined": false})
		return
	}
	if err != nil {
		respondRepoError(c, err, "failed to join stream")
		return
	}

	observability.IncStreamPresence("join")
	h.broadcastViewerCount(c, stream)
	c.JSON(http.StatusOK, gin.H{"stream": stream, "joined": true})
}

// LeaveStream closes the caller's viewer record. Leaving without an open
// record is logged and ignored rather than surfaced.
func (h *StreamHandler) LeaveStream(c *gin.Context) {
	streamID := c.Param("stream_id")
	viewerID := userIDFromContext(c)

	stream, err := h.streamRepo.LeaveStream(c.Request.Context(), streamID, viewerID)
	if errors.Is(err, repositories.ErrViewerNotInStream) {
		log.Printf("stream leave without open record stream=%s viewer=%s", streamID, viewerID)
		current, getErr := h.streamRepo.GetStream(c.Request.Context(), streamID)
		if getErr != nil {
			respondRepoError(c, getErr, "failed to load stream")
			return
		}
		c.JSON(http.StatusOK, gin.H{"stream": current, "left": false})
		return
	}
	if err != nil {
		respondRepoError(c, err, "failed to leave stream")
		return
	}

	observability.IncStreamPresence("leave")
	h.broadcastViewerCount(c, stream)
	c.JSON(http.StatusOK, gin.H{"stream": stream, "left": true})
}

func (h *StreamHandler) broadcastViewerCount(c *gin.Context, stream models.LiveStream) {
	event := models.StreamEvent{Type: "viewer_count", StreamID: stream.ID, Status: stream.Status, ViewerCount: stream.ViewerCount}
	h.hub.BroadcastStreamEvent(stream.ID, event)
	h.feed.PublishStreamEvent(context.WithoutCancel(c.Request.Context()), event)
}
