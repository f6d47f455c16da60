// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package directory

import (
	"context"
	"time"

	"github.com/reportdeck/reportdeck/internal/model"
)

// Stats computes dashboard counters from the live tables at call time.
// Traffic windows are local midnight and the first of the current month;
// registrations count the trailing 30 days. Nothing here is cached.
func (s *Store) Stats(_ context.Context) model.DashboardStats {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	var stats model.DashboardStats

	s.users.mu.RLock()
	stats.TotalUsers = len(s.users.byID)
	for _, rec := range s.users.byID {
		if rec.user.IsActive {
			stats.ActiveUsers++
		}
		if !rec.user.CreatedAt.Before(thirtyDaysAgo) {
			stats.RecentRegistrations++
		}
	}
	s.users.mu.RUnlock()

	s.pages.mu.RLock()
	stats.TotalPages = len(s.pages.byID)
	for _, rec := range s.pages.byID {
		if rec.page.IsActive {
			stats.ActivePages++
		}
	}
	s.pages.mu.RUnlock()

	s.activity.mu.RLock()
	for _, entry := range s.activity.entries {
		if !entry.Timestamp.Before(dayStart) {
			stats.DailyTraffic++
		}
		if !entry.Timestamp.Before(monthStart) {
			stats.MonthlyTraffic++
		}
	}
	if len(s.activity.entries) > 0 {
		stats.LastActivity = s.activity.entries[0].Timestamp
	}
	s.activity.mu.RUnlock()

	return stats
}
