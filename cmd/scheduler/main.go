// The scheduler binary runs the daily follow-up scan. It processes
// asynq tasks from Redis and registers the cron entry that enqueues
// the scan each morning.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	authrepo "cleardoor_backend/internal/auth/repository"
	authservice "cleardoor_backend/internal/auth/service"
	"cleardoor_backend/internal/email"
	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/followup"
	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/internal/notification"
	"cleardoor_backend/internal/scheduler"
	"cleardoor_backend/platform/config"
	"cleardoor_backend/platform/db"
	"cleardoor_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)
	if sender == nil {
		log.Warn("email delivery disabled; reminders are in-app only")
	}

	leadsRepo := repository.New(pool)
	authSvc := authservice.New(authrepo.New(pool), cfg, log)

	notificationModule := notification.NewModule(pool, authSvc, leadsRepo, sender, log)
	notificationModule.RegisterHandlers(eventBus)

	scanner := followup.NewScanner(leadsRepo, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, scanner, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}
