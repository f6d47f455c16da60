package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestProtection(maxAttempts int) *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   50 * time.Millisecond,
		AttemptWindow:     time.Minute,
	})
}

func TestAccountLockoutAfterFailures(t *testing.T) {
	lp := newTestProtection(3)

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt("alice"); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	locked, duration := lp.RecordFailedAttempt("alice")
	if !locked {
		t.Fatal("account not locked at threshold")
	}
	if duration != 50*time.Millisecond {
		t.Errorf("lockout duration = %v", duration)
	}

	if isLocked, _ := lp.IsAccountLocked("alice"); !isLocked {
		t.Error("IsAccountLocked = false right after lockout")
	}
	// Other accounts are unaffected.
	if isLocked, _ := lp.IsAccountLocked("bob"); isLocked {
		t.Error("unrelated account locked")
	}

	// Lockout expires.
	time.Sleep(60 * time.Millisecond)
	if isLocked, _ := lp.IsAccountLocked("alice"); isLocked {
		t.Error("account still locked after expiry")
	}
}

func TestLockoutBackoffDoubles(t *testing.T) {
	lp := newTestProtection(1)

	_, first := lp.RecordFailedAttempt("alice")
	time.Sleep(60 * time.Millisecond)
	_, second := lp.RecordFailedAttempt("alice")

	if second != 2*first {
		t.Errorf("second lockout = %v, want double of %v", second, first)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := newTestProtection(3)

	lp.RecordFailedAttempt("alice")
	lp.RecordFailedAttempt("alice")
	if got := lp.RemainingAttempts("alice"); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin("alice")
	if got := lp.RemainingAttempts("alice"); got != 3 {
		t.Errorf("remaining after success = %d, want 3", got)
	}
}

func TestLoginMiddlewareRateLimitsPosts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       0.001,
		IPBurst:           1,
		MaxFailedAttempts: 5,
	})
	h := lp.Middleware()(okHandler())

	post := func() int {
		r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		r.RemoteAddr = "203.0.113.9:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first POST = %d, want 200", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d, want 429", code)
	}

	// GETs bypass the limiter.
	r := httptest.NewRequest("GET", "/api/v1/auth/login", nil)
	r.RemoteAddr = "203.0.113.9:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("GET = %d, want 200", rec.Code)
	}
}
