// Command prospect-dedup runs one duplicate-merge pass over the prospect
// base and exits. Meant for cron; the same merge is exposed over HTTP for
// ad-hoc runs from the back office.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects"
	"eprofos_admin_backend/internal/prospects/dedup"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/platform/config"
	"eprofos_admin_backend/platform/db"
	"eprofos_admin_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(connectCtx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	prospects.RegisterMetricsHandlers(eventBus, log)

	svc := dedup.New(repository.New(pool), eventBus, log)

	merged, err := svc.MergeDuplicates(ctx)
	if err != nil {
		log.Error("dedup pass failed", "error", err, "mergesPerformed", merged)
		os.Exit(1)
	}

	log.Info("dedup pass complete", "mergesPerformed", merged)
}
