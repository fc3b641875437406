package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"directchat/internal/middleware"
	"directchat/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router gin.IRoutes, emitter *telemetry.EventEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/event-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "event emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), telemetry.EventTest, middleware.RequestIDFromContext(c), gin.H{"text": "event test"})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
