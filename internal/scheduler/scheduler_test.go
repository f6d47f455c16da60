// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportdeck/reportdeck/internal/cache"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/model"
)

func newTestRefresher(t *testing.T) (*Refresher, *directory.Store, cache.Cache) {
	t.Helper()
	store := directory.New()
	c := cache.New(cache.DefaultConfig())
	t.Cleanup(func() { c.Close() })

	r := New(store, c, "dashboard:stats", time.Minute, slog.Default())
	return r, store, c
}

func TestRefreshWritesSnapshot(t *testing.T) {
	r, store, c := newTestRefresher(t)
	require.NoError(t, store.Seed(context.Background()))

	r.Refresh(context.Background())

	raw, err := c.Get(context.Background(), "dashboard:stats")
	require.NoError(t, err)

	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, len(store.ListUsers(context.Background())), stats.TotalUsers)
	assert.Equal(t, len(store.ListPages(context.Background())), stats.TotalPages)
}

func TestRefreshOverwritesStaleSnapshot(t *testing.T) {
	r, store, c := newTestRefresher(t)

	r.Refresh(context.Background())

	_, err := store.CreateUser(context.Background(), directory.CreateUserParams{
		Username: "late", Password: "secret12", Role: model.RoleUser, Name: "Late",
	})
	require.NoError(t, err)

	r.Refresh(context.Background())

	raw, err := c.Get(context.Background(), "dashboard:stats")
	require.NoError(t, err)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 1, stats.TotalUsers)
}

func TestStartStop(t *testing.T) {
	r, _, c := newTestRefresher(t)

	require.NoError(t, r.Start())
	defer r.Stop()

	// Start runs an initial refresh synchronously.
	_, err := c.Get(context.Background(), "dashboard:stats")
	assert.NoError(t, err)
}

func TestNewClampsInterval(t *testing.T) {
	r, _, _ := newTestRefresher(t)
	assert.Equal(t, time.Minute, r.interval)

	zero := New(directory.New(), nil, "k", 0, slog.Default())
	assert.Equal(t, DefaultInterval, zero.interval)
}
