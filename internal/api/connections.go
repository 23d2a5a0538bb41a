// internal/api/connections.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sitenotify/internal/integration"
	"sitenotify/internal/trigger"
)

type validateConnectionRequest struct {
	Integration string                 `json:"integration" binding:"required"`
	Settings    map[string]interface{} `json:"settings"`
}

// validateConnection checks connection settings against the target
// integration's schema. On success it also returns the sanitized
// settings so the dashboard can preview what will actually be stored.
// Merge tags for entities are left literal here; there is no firing to
// resolve them against.
func (s *Server) validateConnection(c *gin.Context) {
	var req validateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "integration is required"})
		return
	}

	integ, ok := s.integrations.Get(req.Integration)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown integration"})
		return
	}

	schema := integ.Schema()
	if violations := schema.Validate(req.Settings); len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "violations": violations})
		return
	}

	preview := integration.ProcessAttributes(schema, req.Settings, s.engine, &trigger.FireContext{})
	c.JSON(http.StatusOK, gin.H{"valid": true, "preview": preview})
}
