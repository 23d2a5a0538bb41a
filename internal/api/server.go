// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitenotify/internal/common/logger"
	"sitenotify/internal/integration"
	"sitenotify/internal/mergetag"
	"sitenotify/internal/models"
	"sitenotify/internal/trigger"
)

// SettingsService is the settings surface the API needs, satisfied by
// storage.SettingsStore.
type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// LogService is the delivery log surface, satisfied by
// storage.DeliveryLogStore.
type LogService interface {
	List(ctx context.Context, page, size int) ([]models.LogEntry, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SubscriptionService is the push subscription surface, satisfied by
// storage.SubscriptionStore.
type SubscriptionService interface {
	Create(ctx context.Context, sub *models.PushSubscription) (int64, error)
	ListPage(ctx context.Context, page, size int) ([]models.PushSubscription, error)
	Count(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// Server wires the REST surface over the registries and stores.
type Server struct {
	settings      SettingsService
	logs          LogService
	subscriptions SubscriptionService
	triggers      *trigger.Registry
	engine        *mergetag.Engine
	integrations  *integration.Loader
	logger        logger.Logger
}

func NewServer(settings SettingsService, logs LogService, subs SubscriptionService,
	triggers *trigger.Registry, engine *mergetag.Engine, integrations *integration.Loader,
	log logger.Logger) *Server {
	return &Server{
		settings:      settings,
		logs:          logs,
		subscriptions: subs,
		triggers:      triggers,
		engine:        engine,
		integrations:  integrations,
		logger:        log,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/settings/:key", s.getSetting)
		v1.PUT("/settings/:key", s.putSetting)

		v1.GET("/logs", s.listLogs)
		v1.DELETE("/logs", s.deleteLogs)

		v1.GET("/subscriptions", s.listSubscriptions)
		v1.POST("/subscriptions", s.createSubscription)
		v1.PATCH("/subscriptions/:id", s.patchSubscription)
		v1.DELETE("/subscriptions/:id", s.deleteSubscription)

		v1.GET("/triggers", s.listTriggers)
		v1.GET("/triggers/:slug/merge-tags", s.listMergeTags)

		v1.POST("/connections/validate", s.validateConnection)
	}

	return r
}
