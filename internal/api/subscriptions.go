// internal/api/subscriptions.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sitenotify/internal/models"
	"sitenotify/internal/storage"
)

type createSubscriptionRequest struct {
	Endpoint        string `json:"endpoint" binding:"required"`
	P256DH          string `json:"p256dh" binding:"required"`
	Auth            string `json:"auth" binding:"required"`
	ContentEncoding string `json:"contentEncoding"`
}

type patchSubscriptionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) listSubscriptions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	subs, err := s.subscriptions.ListPage(c.Request.Context(), page, size)
	if err != nil {
		s.logger.WithError(err).Error("failed to list push subscriptions", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list push subscriptions"})
		return
	}

	total, err := s.subscriptions.Count(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to count push subscriptions", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count push subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "size": size, "total": total, "subscriptions": subs})
}

func (s *Server) createSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint, p256dh and auth are required"})
		return
	}

	encoding := req.ContentEncoding
	if encoding == "" {
		encoding = "aes128gcm"
	}

	sub := &models.PushSubscription{
		Endpoint:        req.Endpoint,
		P256DH:          req.P256DH,
		Auth:            req.Auth,
		ContentEncoding: encoding,
	}
	id, err := s.subscriptions.Create(c.Request.Context(), sub)
	if err != nil {
		s.logger.WithError(err).Error("failed to create push subscription", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create push subscription"})
		return
	}
	sub.ID = id

	c.JSON(http.StatusCreated, sub)
}

func (s *Server) patchSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	var req patchSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if req.Status != models.SubscriptionStatusSubscribed && req.Status != models.SubscriptionStatusUnsubscribed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be subscribed or unsubscribed"})
		return
	}

	if err := s.subscriptions.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		s.logger.WithError(err).Error("failed to update push subscription", map[string]interface{}{"id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update push subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (s *Server) deleteSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	if err := s.subscriptions.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		s.logger.WithError(err).Error("failed to delete push subscription", map[string]interface{}{"id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete push subscription"})
		return
	}

	c.Status(http.StatusNoContent)
}
