// internal/api/logs.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultLogPageSize = 25

type deleteLogsRequest struct {
	IDs        []string `json:"ids"`
	BeforeDays int      `json:"before_days"`
}

func (s *Server) listLogs(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", defaultLogPageSize)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = defaultLogPageSize
	}

	entries, err := s.logs.List(c.Request.Context(), page, size)
	if err != nil {
		s.logger.WithError(err).Error("failed to list delivery log", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list delivery log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "size": size, "entries": entries})
}

// deleteLogs removes entries either by explicit id list or by age.
// Exactly one of ids / before_days must be provided.
func (s *Server) deleteLogs(c *gin.Context) {
	var req deleteLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		deleted int64
		err     error
	)
	switch {
	case len(req.IDs) > 0:
		deleted, err = s.logs.DeleteByIDs(c.Request.Context(), req.IDs)
	case req.BeforeDays > 0:
		cutoff := time.Now().AddDate(0, 0, -req.BeforeDays)
		deleted, err = s.logs.DeleteOlderThan(c.Request.Context(), cutoff)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide ids or before_days"})
		return
	}

	if err != nil {
		s.logger.WithError(err).Error("failed to delete delivery log entries", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete delivery log entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
