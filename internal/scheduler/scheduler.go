// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler refreshes the dashboard stats snapshot on a fixed
// interval so dashboard reads stay cheap and at most one interval stale.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/reportdeck/reportdeck/internal/cache"
	"github.com/reportdeck/reportdeck/internal/directory"
)

// DefaultInterval is the stock refresh interval.
const DefaultInterval = 30 * time.Second

// Refresher periodically recomputes the stats snapshot into the cache.
type Refresher struct {
	store    *directory.Store
	cache    cache.Cache
	cacheKey string
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// New creates a refresher writing snapshots under cacheKey. A non-positive
// interval uses DefaultInterval.
func New(store *directory.Store, c cache.Cache, cacheKey string, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		store:    store,
		cache:    c,
		cacheKey: cacheKey,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start computes an initial snapshot and schedules the refresh job.
func (r *Refresher) Start() error {
	r.Refresh(context.Background())

	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, func() {
		r.Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("scheduling stats refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("stats refresher started", "interval", r.interval)
	return nil
}

// Stop waits for a running refresh to finish and stops the scheduler.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("stats refresher stopped")
}

// Refresh recomputes the snapshot and overwrites the cache entry. The TTL
// is one interval, so a stalled refresher expires instead of serving stale
// numbers forever.
func (r *Refresher) Refresh(ctx context.Context) {
	stats := r.store.Stats(ctx)
	raw, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("marshaling stats snapshot", "error", err)
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey, raw, r.interval); err != nil {
		r.logger.Error("writing stats snapshot", "error", err)
	}
}
