package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
)

const viewerKey = "viewer"

func RequestLoggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Infof("Request: %s %s, Status: %d, Latency: %v", method, path, status, latency)
	}
}

// ViewerMiddleware trusts the identity headers forwarded by the gateway.
// Requests without X-User-ID are rejected.
func ViewerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := models.Viewer{
			ID:      c.GetHeader("X-User-ID"),
			Email:   c.GetHeader("X-User-Email"),
			IsAdmin: c.GetHeader("X-User-Role") == "admin",
		}
		if viewer.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
			return
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// AdminOnly guards staff endpoints.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentViewer(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentViewer(c *gin.Context) models.Viewer {
	v, _ := c.Get(viewerKey)
	viewer, _ := v.(models.Viewer)
	return viewer
}
