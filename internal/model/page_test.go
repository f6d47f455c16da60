package model

import "testing"

func TestPageAllowsRole(t *testing.T) {
	open := Page{ID: "p1"}
	if !open.AllowsRole(RoleUser) {
		t.Error("empty allow-list should admit any role")
	}

	restricted := Page{ID: "p2", AllowedRoles: []string{RoleAdmin, RoleDeveloper}}
	if restricted.AllowsRole(RoleUser) {
		t.Error("user should not be admitted by admin/developer allow-list")
	}
	if !restricted.AllowsRole(RoleDeveloper) {
		t.Error("developer should be admitted")
	}
}

func TestValidPageSubType(t *testing.T) {
	tests := []struct {
		pageType string
		subType  string
		want     bool
	}{
		{PageTypePowerBI, "dashboard", true},
		{PageTypePowerBI, "data-entry", false},
		{PageTypeSpreadsheet, "data-entry", true},
		{PageTypeHTML, "landing", true},
		{PageTypeHTML, "", true},
		{"unknown", "dashboard", false},
	}
	for _, tt := range tests {
		if got := ValidPageSubType(tt.pageType, tt.subType); got != tt.want {
			t.Errorf("ValidPageSubType(%q, %q) = %v, want %v", tt.pageType, tt.subType, got, tt.want)
		}
	}
}

func TestUserSeesAllPages(t *testing.T) {
	for role, want := range map[string]bool{
		RoleAdmin:     true,
		RoleDeveloper: true,
		RoleEditor:    false,
		RoleUser:      false,
	} {
		u := User{Role: role}
		if got := u.SeesAllPages(); got != want {
			t.Errorf("SeesAllPages for %s = %v, want %v", role, got, want)
		}
	}
}
