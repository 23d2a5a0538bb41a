// cmd/dispatcher/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sitenotify/internal/api"
	"sitenotify/internal/common/aws"
	"sitenotify/internal/common/config"
	"sitenotify/internal/common/database"
	commonhttp "sitenotify/internal/common/http"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/content"
	"sitenotify/internal/dispatch"
	"sitenotify/internal/integration"
	"sitenotify/internal/integration/discord"
	"sitenotify/internal/integration/email"
	"sitenotify/internal/integration/webhook"
	"sitenotify/internal/integration/webpush"
	"sitenotify/internal/mergetag"
	"sitenotify/internal/queue"
	"sitenotify/internal/storage"
	"sitenotify/internal/trigger"
	"sitenotify/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notification dispatcher...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	ruleStore := storage.NewRuleStore(pg.GetDB())
	logStore := storage.NewDeliveryLogStore(pg.GetDB())
	subStore := storage.NewSubscriptionStore(pg.GetDB())
	settingsStore := storage.NewSettingsStore(pg.GetDB())

	repo := content.NewPostgresRepository(pg.GetDB())
	bus := content.NewHookBus()

	// --- Merge tags ---
	engine := mergetag.NewEngine(mergetag.Defaults())

	// --- Background queue ---
	q := queue.New(redis.GetClient(), cfg.Queue.Key)

	// --- Integrations ---
	loader := integration.NewLoader()

	if cfg.Integrations.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.Email.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		loader.Register(email.New(email.Config{
			FromEmail: cfg.Integrations.Email.FromEmail,
			FromName:  cfg.Integrations.Email.FromName,
		}, sesClient, repo, log))
	}

	httpClient := commonhttp.NewClient(time.Duration(cfg.Integrations.Webhook.Timeout) * time.Millisecond)
	loader.Register(webhook.New(httpClient, log))
	loader.Register(discord.New(httpClient, log))

	// VAPID keys from the settings store win over config bootstrap values.
	vapidPublic, _ := settingsStore.Get(ctx, storage.SettingVAPIDPublicKey)
	vapidPrivate, _ := settingsStore.Get(ctx, storage.SettingVAPIDPrivateKey)
	if vapidPublic == "" {
		vapidPublic = cfg.Integrations.WebPush.VAPIDPublicKey
	}
	if vapidPrivate == "" {
		vapidPrivate = cfg.Integrations.WebPush.VAPIDPrivateKey
	}
	wpConfig := webpush.Config{
		VAPIDPublicKey:  vapidPublic,
		VAPIDPrivateKey: vapidPrivate,
		Subscriber:      cfg.Integrations.WebPush.Subscriber,
		TTL:             cfg.Integrations.WebPush.TTL,
	}
	// Without the queue worker running, the batch sender must walk
	// subscriber pages inline rather than enqueue them.
	var pager webpush.PageEnqueuer
	if cfg.Queue.Enabled {
		pager = q
	}
	batch := webpush.NewBatchSender(webpush.NewTransport(wpConfig), subStore, logStore, pager, log)
	loader.Register(webpush.New(wpConfig, batch))

	zapLog.Info("Integrations registered", zap.Int("count", len(loader.All())))

	// --- Dispatch pipeline ---
	processor := dispatch.NewProcessor(loader, engine, logStore, log)
	if cfg.Queue.Enabled {
		processor.SetBackground(q, settingsStore)
	}

	// --- Triggers ---
	registry := trigger.NewRegistry(repo, bus, ruleStore, processor, log)
	registry.SetEnablementChecker(settingsStore)
	for _, desc := range trigger.Defaults() {
		registry.MustRegister(desc)
	}
	zapLog.Info("Triggers registered", zap.Int("count", len(registry.All())))

	// --- Catalog export for the dashboard build ---
	if path := os.Getenv("CATALOG_EXPORT_PATH"); path != "" {
		doc := catalog.Build(registry, loader, cfg.App.Version)
		if err := catalog.Write(doc, path); err != nil {
			zapLog.Error("catalog export failed", zap.Error(err))
		} else {
			zapLog.Info("Catalog exported", zap.String("path", path))
		}
	}

	// --- Queue worker ---
	if cfg.Queue.Enabled {
		worker := queue.NewWorker(q, time.Duration(cfg.Queue.PollInterval)*time.Millisecond, log)
		worker.Handle(queue.KindConnections, queue.ConnectionsHandler(processor))
		worker.Handle(queue.KindWebPushPage, queue.WebPushPageHandler(batch))
		go worker.Run(ctx)
		zapLog.Info("Queue worker started", zap.String("key", cfg.Queue.Key))
	}

	// --- REST API ---
	srv := api.NewServer(settingsStore, logStore, subStore, registry, engine, loader, log)
	httpSrv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}
	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Dispatcher stopped")
}
