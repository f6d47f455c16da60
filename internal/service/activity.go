// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic glue between handlers and the
// directory store.
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mileusna/useragent"

	"github.com/reportdeck/reportdeck/internal/geoip"
	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/util"
)

// ActivityLogger is the sink for enriched activity entries.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry model.Activity)
}

// ActivityRecorder stamps activity entries with request metadata before
// they reach the log: client IP, a readable user agent summary, and the
// client country when GeoIP is available.
type ActivityRecorder struct {
	log ActivityLogger
	geo *geoip.Lookup
}

// NewActivityRecorder creates a recorder. geo may be nil.
func NewActivityRecorder(log ActivityLogger, geo *geoip.Lookup) *ActivityRecorder {
	return &ActivityRecorder{log: log, geo: geo}
}

// Record logs an activity entry enriched from the request.
func (a *ActivityRecorder) Record(r *http.Request, userID, action, details string) {
	ip := util.ClientIP(r)
	entry := model.Activity{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: summarizeUserAgent(r.UserAgent()),
	}
	if a.geo != nil {
		entry.Country = a.geo.Country(ip)
	}
	a.log.LogActivity(r.Context(), entry)
}

// summarizeUserAgent reduces a raw user agent string to "Browser X on OS".
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.Parse(raw)
	if ua.Name == "" {
		return raw
	}
	if ua.OS == "" {
		return ua.Name
	}
	return fmt.Sprintf("%s on %s", ua.Name, ua.OS)
}
