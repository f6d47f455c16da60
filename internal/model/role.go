package model

// Role groups fine-grained permissions under a coarse capability bucket.
// System roles are built in and cannot be edited or deleted.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Description string   `json:"description"`
	IsSystem    bool     `json:"is_system"`
}

// Permission is a fine-grained capability identifier, e.g. "pages.edit".
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// HasPermission returns true if the role holds the given permission.
func (r *Role) HasPermission(permID string) bool {
	for _, p := range r.Permissions {
		if p == permID {
			return true
		}
	}
	return false
}
