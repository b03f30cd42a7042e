package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanishqPratap/content-oasis-app/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/notify-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "INFO", "notification test", requestIDFromContext(c), auditUserID(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
