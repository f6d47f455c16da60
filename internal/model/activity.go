package model

import (
	"time"
)

// Activity actions recorded by the directory.
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionUserCreate     = "user_create"
	ActionUserUpdate     = "user_update"
	ActionUserDelete     = "user_delete"
	ActionStatusChange   = "status_change"
	ActionPageAssignment = "page_assignment"
	ActionPageCreate     = "page_create"
	ActionPageUpdate     = "page_update"
	ActionPageDelete     = "page_delete"
	ActionPageView       = "page_view"
)

// MaxActivityEntries caps the activity log. Oldest entries are dropped first.
const MaxActivityEntries = 1000

// Activity represents a single audit log entry.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Country   string    `json:"country,omitempty"`
}

// DashboardStats aggregates directory counters for the admin dashboard.
// Values are computed at call time from the live tables.
type DashboardStats struct {
	TotalUsers          int       `json:"total_users"`
	ActiveUsers         int       `json:"active_users"`
	TotalPages          int       `json:"total_pages"`
	ActivePages         int       `json:"active_pages"`
	DailyTraffic        int       `json:"daily_traffic"`
	MonthlyTraffic      int       `json:"monthly_traffic"`
	RecentRegistrations int       `json:"recent_registrations"`
	LastActivity        time.Time `json:"last_activity"`
}
