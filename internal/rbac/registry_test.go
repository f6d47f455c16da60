package rbac

import (
	"errors"
	"testing"

	"github.com/reportdeck/reportdeck/internal/model"
)

func TestHasPermission(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		role string
		perm string
		want bool
	}{
		{model.RoleAdmin, PermSystemSettings, true},
		{model.RoleDeveloper, PermSystemSettings, false},
		{model.RoleDeveloper, PermPagesDelete, true},
		{model.RoleEditor, PermPagesEdit, true},
		{model.RoleEditor, PermPagesCreate, false},
		{model.RoleUser, PermPagesView, true},
		{model.RoleUser, PermPagesEdit, false},
		{"ghost", PermPagesView, false},
	}
	for _, tt := range tests {
		if got := reg.HasPermission(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestCanAccessPage(t *testing.T) {
	reg := NewRegistry()

	if !reg.CanAccessPage(model.RoleUser, nil) {
		t.Error("empty required list should grant access")
	}
	if !reg.CanAccessPage(model.RoleEditor, []string{PermPagesView, PermPagesEdit}) {
		t.Error("editor holds both required permissions")
	}
	// Every required permission must be held, not just one.
	if reg.CanAccessPage(model.RoleUser, []string{PermPagesView, PermPagesEdit}) {
		t.Error("user lacks pages.edit; AND semantics required")
	}
}

func TestSystemRolesImmutable(t *testing.T) {
	reg := NewRegistry()

	if err := reg.UpdateRole(model.RoleAdmin, "Root", "", nil); !errors.Is(err, ErrSystemRole) {
		t.Errorf("UpdateRole on system role: got %v, want ErrSystemRole", err)
	}
	if err := reg.DeleteRole(model.RoleUser); !errors.Is(err, ErrSystemRole) {
		t.Errorf("DeleteRole on system role: got %v, want ErrSystemRole", err)
	}
}

func TestCustomRoleLifecycle(t *testing.T) {
	reg := NewRegistry()

	custom := model.Role{
		ID:          "auditor",
		Name:        "Auditor",
		Description: "Read-only audit access",
		Permissions: []string{PermSystemLogs, PermAnalyticsView},
	}
	if err := reg.CreateRole(custom); err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	if err := reg.CreateRole(custom); !errors.Is(err, ErrDuplicateRole) {
		t.Errorf("duplicate CreateRole: got %v, want ErrDuplicateRole", err)
	}

	if !reg.HasPermission("auditor", PermSystemLogs) {
		t.Error("auditor should hold system.logs")
	}

	if err := reg.UpdateRole("auditor", "", "", []string{PermAnalyticsView}); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if reg.HasPermission("auditor", PermSystemLogs) {
		t.Error("system.logs should be revoked after update")
	}

	if err := reg.DeleteRole("auditor"); err != nil {
		t.Fatalf("DeleteRole failed: %v", err)
	}
	if _, err := reg.Role("auditor"); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("deleted role lookup: got %v, want ErrRoleNotFound", err)
	}
}

func TestRolesReturnsCopies(t *testing.T) {
	reg := NewRegistry()

	roles := reg.Roles()
	roles[0].Permissions[0] = "tampered"

	fresh, err := reg.Role(roles[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Permissions[0] == "tampered" {
		t.Error("Roles leaked internal permission slice")
	}
}
