package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/reportdeck/reportdeck/internal/model"
)

type captureLog struct {
	entries []model.Activity
}

func (c *captureLog) LogActivity(_ context.Context, entry model.Activity) {
	c.entries = append(c.entries, entry)
}

func TestRecordEnrichesEntry(t *testing.T) {
	log := &captureLog{}
	rec := NewActivityRecorder(log, nil)

	r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	r.RemoteAddr = "203.0.113.5:44321"
	r.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	rec.Record(r, "u1", model.ActionLogin, "User logged in")

	if len(log.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(log.entries))
	}
	e := log.entries[0]
	if e.UserID != "u1" || e.Action != model.ActionLogin {
		t.Errorf("entry fields wrong: %+v", e)
	}
	if e.IPAddress != "203.0.113.5" {
		t.Errorf("IP not extracted: %q", e.IPAddress)
	}
	if e.UserAgent != "Chrome on Windows" {
		t.Errorf("user agent not summarized: %q", e.UserAgent)
	}
}

func TestSummarizeUserAgent(t *testing.T) {
	if got := summarizeUserAgent(""); got != "" {
		t.Errorf("empty UA: %q", got)
	}
	if got := summarizeUserAgent("weird-client/1.0"); got == "" {
		t.Error("unparseable UA should fall back to the raw string")
	}
}
