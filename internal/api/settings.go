// internal/api/settings.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type putSettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) getSetting(c *gin.Context) {
	key := c.Param("key")

	value, err := s.settings.Get(c.Request.Context(), key)
	if err != nil {
		s.logger.WithError(err).Error("failed to read setting", map[string]interface{}{"key": key})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

func (s *Server) putSetting(c *gin.Context) {
	key := c.Param("key")

	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.settings.Set(c.Request.Context(), key, req.Value); err != nil {
		s.logger.WithError(err).Error("failed to store setting", map[string]interface{}{"key": key})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}
